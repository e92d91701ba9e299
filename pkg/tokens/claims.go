package tokens

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of a bearer token. Subject holds the account id.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
