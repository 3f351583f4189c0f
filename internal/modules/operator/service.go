package operator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

const minPasswordLength = 8

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// Service defines operator management.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Operator, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService creates a new operator service.
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Operator, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", req.Email)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}

	op := &Operator{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  strings.TrimSpace(req.DisplayName),
	}
	if err := s.repo.Create(ctx, op); err != nil {
		if postgres.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return op, nil
}
