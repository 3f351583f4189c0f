package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/seedhouse-backend/internal/config"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/operator"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDisabled           = errors.New("authentication is not configured")
)

type service struct {
	operators operator.Repository
	key       []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewService creates a new auth service.
func NewService(operators operator.Repository, cfg config.AuthConfig) Service {
	return &service{
		operators: operators,
		key:       []byte(cfg.JWTSecret),
		ttl:       cfg.TokenTTL,
		now:       time.Now,
	}
}

func (s *service) Enabled() bool { return len(s.key) > 0 }

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	op, err := s.operators.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && op == nil) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load operator: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := &Claims{
		Email: op.Email,
		StandardClaims: jwt.StandardClaims{
			Subject:   op.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *service) Verify(tokenString string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
