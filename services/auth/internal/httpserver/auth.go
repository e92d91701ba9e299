package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/pkg/logging"
	authmw "github.com/Skotchmaster/product_catalog/pkg/middleware/auth"
	"github.com/Skotchmaster/product_catalog/services/auth/internal/service"
	"github.com/Skotchmaster/product_catalog/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func bindCredentials(c echo.Context) (transport.CredentialsRequest, error) {
	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	req, err := bindCredentials(c)
	if err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	acc, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusBadRequest, service.ErrConflict.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	return c.JSON(http.StatusCreated, acc)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	req, err := bindCredentials(c)
	if err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: token})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	claims, ok := authmw.Claims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid bearer token")
	}
	return c.JSON(http.StatusOK, transport.MeResponse{ID: claims.Subject, Email: claims.Email})
}
