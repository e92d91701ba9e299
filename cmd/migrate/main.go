package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/product_catalog/pkg/config"
	pkgdb "github.com/Skotchmaster/product_catalog/pkg/db"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load("migrate", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DBDriver != config.DriverPostgres {
		log.Fatalf("migrations target postgres, DB_DRIVER is %q", cfg.DBDriver)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	if err := pkgdb.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("migrate_error", "error", err)
		os.Exit(1)
	}
	logger.Info("migrate_success", "duration_ms", time.Since(start).Milliseconds())
}
