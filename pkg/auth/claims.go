package auth

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims is the typed JWT issued to clients. The token only carries
// the email; the role is resolved from the user store on every request.
type IdentityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
