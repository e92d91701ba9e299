package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/product_catalog/pkg/config"
	"github.com/Skotchmaster/product_catalog/pkg/events"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
	loggingmw "github.com/Skotchmaster/product_catalog/pkg/middleware/logging"
	"github.com/Skotchmaster/product_catalog/pkg/validation"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/service"
)

func main() {
	if err := godotenv.Load("services/catalog/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load("catalog", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")
	cfg.MustDatabase()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := openStore(initCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("store init: %v", err)
	}
	searcher, err := openSearch(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("search init: %v", err)
	}

	publisher := events.New(cfg.Brokers(), cfg.ProductEventsTopic)

	svc := &service.CatalogService{
		Repo:     st.repo,
		Searcher: searcher,
		Events:   publisher,
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		JWTSecret:      cfg.Secret(),
		Ready:          st.ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("catalog_listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "search", searcher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("events_close_error", "error", err)
	}
	st.close(shutdownCtx)

	logger.Info("catalog_stopped")
}
