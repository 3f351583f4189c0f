package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ErrNotFound is returned for an unknown batch id.
var ErrNotFound = errors.New("batch not found")

// Service exposes committed batches. Batches are written only by ingestion.
type Service interface {
	GetBatch(ctx context.Context, id string) (*Batch, error)
	ListBatches(ctx context.Context, limit int) ([]*Batch, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) GetBatch(ctx context.Context, id string) (*Batch, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid batch id: %w", err)
	}
	b, err := s.repo.GetByID(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

func (s *service) ListBatches(ctx context.Context, limit int) ([]*Batch, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	return s.repo.List(ctx, limit)
}
