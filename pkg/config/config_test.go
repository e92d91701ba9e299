package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("catalog", nil)
	require.NoError(t, err)

	assert.Equal(t, "catalog", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "product_events", cfg.ProductEventsTopic)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Nil(t, cfg.Brokers())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg, err := Load("auth", nil)
	require.NoError(t, err)

	assert.Equal(t, 9091, cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, []byte("s3cret"), cfg.Secret())
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers())
	assert.True(t, cfg.AutoMigrate)
}

func TestLoad_FileThenFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_port: 7000\nes_url: http://es:9200\nlog_level: debug\n"), 0o600))

	cfg, err := Load("catalog", []string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.ServerPort)
	assert.Equal(t, "http://es:9200", cfg.ESURL)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = Load("catalog", []string{"--config", path, "--port", "7100"})
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.ServerPort)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("catalog", []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)

	_, err = Load("catalog", []string{"--unknown"})
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "oracle")
	_, err = Load("catalog", nil)
	require.ErrorContains(t, err, "DB_DRIVER")
}

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a ,,b "))
}
