package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string `mapstructure:"service_name"`
	ServerPort  int    `mapstructure:"server_port"`
	LogLevel    string `mapstructure:"log_level"`

	DBDriver      string `mapstructure:"db_driver"`
	DatabaseURL   string `mapstructure:"database_url"`
	AutoMigrate   bool   `mapstructure:"auto_migrate"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`

	KafkaBrokers       string `mapstructure:"kafka_brokers"`
	UserEventsTopic    string `mapstructure:"user_events_topic"`
	ProductEventsTopic string `mapstructure:"product_events_topic"`

	ESURL      string `mapstructure:"es_url"`
	ESUser     string `mapstructure:"es_user"`
	ESPassword string `mapstructure:"es_password"`
	ESIndex    string `mapstructure:"es_index"`

	AuthURL    string `mapstructure:"auth_url"`
	CatalogURL string `mapstructure:"catalog_url"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

var defaults = map[string]any{
	"server_port":          8080,
	"log_level":            "info",
	"db_driver":            DriverPostgres,
	"database_url":         "",
	"auto_migrate":         false,
	"mongo_uri":            "",
	"mongo_database":       "catalog",
	"jwt_secret":           "",
	"jwt_ttl":              time.Hour,
	"kafka_brokers":        "",
	"user_events_topic":    "user_events",
	"product_events_topic": "product_events",
	"es_url":               "",
	"es_user":              "",
	"es_password":          "",
	"es_index":             "products",
	"auth_url":             "",
	"catalog_url":          "",
}

// Load resolves configuration from defaults, an optional config file
// (--config), environment variables and the --port flag, in increasing
// order of precedence.
func Load(serviceName string, args []string) (Config, error) {
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a config file (yaml, json, toml or .env)")
	fs.Int("port", 8080, "listen port")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	v.SetDefault("service_name", serviceName)
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if err := v.BindPFlag("server_port", fs.Lookup("port")); err != nil {
		return Config{}, fmt.Errorf("bind port flag: %w", err)
	}

	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", *configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func (c Config) Secret() []byte {
	return []byte(c.JWTSecret)
}

func (c Config) Brokers() []string {
	return CSV(c.KafkaBrokers)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
