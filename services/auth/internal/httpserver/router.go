package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/product_catalog/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler *AuthHTTP
	// Ready reports whether the account store is reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "account store unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	g := e.Group("/auth")
	g.POST("/register", d.AuthHandler.Register)
	g.POST("/login", d.AuthHandler.Login)
	g.GET("/me", d.AuthHandler.Me, authmw.Bearer(d.AuthHandler.Svc.VerifyToken))
}
