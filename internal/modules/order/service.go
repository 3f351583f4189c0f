package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no committed order has the requested number.
var ErrNotFound = errors.New("order not found")

// Service exposes committed orders. Orders are only ever created by ingestion.
type Service interface {
	// GetOrder retrieves an order with its items by external order number.
	GetOrder(ctx context.Context, orderNumber string) (*Order, error)

	// ListBatchOrders returns the orders a batch committed, by sequence.
	ListBatchOrders(ctx context.Context, batchID uuid.UUID) ([]*Order, error)
}

type service struct {
	repo Repository
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrder(ctx context.Context, orderNumber string) (*Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("order number is required")
	}
	o, err := s.repo.GetByNumber(ctx, orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderNumber, err)
	}
	return o, nil
}

func (s *service) ListBatchOrders(ctx context.Context, batchID uuid.UUID) ([]*Order, error) {
	return s.repo.ListByBatch(ctx, batchID)
}
