package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"
)

// Claims are carried in operator bearer tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Enabled reports whether a signing secret is configured.
	Enabled() bool
	Login(ctx context.Context, email, password string) (string, error)
	Verify(token string) (*Claims, error)
}
