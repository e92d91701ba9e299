package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/gateway/internal/middleware"
)

type Deps struct {
	AuthURL    string
	CatalogURL string
	JWTSecret  []byte
	Logger     *slog.Logger
	// Ready reports whether every upstream is ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range middleware.Common(logger) {
		e.Use(m)
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "upstream unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authProxy, err := newProxy("auth", d.AuthURL)
	if err != nil {
		return err
	}

	catalogProxy, err := newProxy("catalog", d.CatalogURL)
	if err != nil {
		return err
	}

	e.Any("/auth/*", authProxy)

	products := e.Group("/products", middleware.Authenticate(d.JWTSecret))
	products.Any("", catalogProxy)
	products.Any("/*", catalogProxy)

	return nil
}
