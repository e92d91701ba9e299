package authmw

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/pkg/logging"
	"github.com/Skotchmaster/product_catalog/pkg/tokens"
)

const (
	CtxClaims = "claims"
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

type Verifier func(token string) (*tokens.AccessClaims, error)

func HS256(secret []byte) Verifier {
	return func(token string) (*tokens.AccessClaims, error) {
		return tokens.AccessClaimsFromToken(token, secret)
	}
}

// Bearer rejects requests without a valid "Authorization: Bearer <token>"
// header with 401 and stores the verified claims on the echo context.
func Bearer(verify Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  CtxClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			claims, err := verify(auth)
			if err != nil {
				return nil, err
			}
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxEmail, claims.Email)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", http.StatusUnauthorized, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid bearer token")
		},
	})
}

func Claims(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(CtxClaims).(*tokens.AccessClaims)
	return claims, ok
}
