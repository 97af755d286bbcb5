package auth

import "time"

// TokenRequest is the body of POST /jwt.
type TokenRequest struct {
	Email string `json:"email" validate:"required"`
}

// Token is a signed identity token and the moment it stops being valid.
type Token struct {
	Value     string
	ExpiresAt time.Time
}
