package middleware

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/product_catalog/pkg/middleware/auth"
)

// Authenticate rejects product calls without a valid bearer token before
// they reach an upstream. The token itself is forwarded unchanged.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return authmw.Bearer(authmw.HS256(secret))
}
