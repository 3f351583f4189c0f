package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// Insert persists an order and its items. Callers needing atomicity pass a
	// transaction-backed repository.
	Insert(ctx context.Context, o *Order) error

	// GetByNumber retrieves an order with its items by external order number.
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListByBatch returns the orders committed by one ingestion batch.
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*Order, error)

	// ExistingNumbers returns which of the given order numbers are already committed.
	ExistingNumbers(ctx context.Context, orderNumbers []string) ([]string, error)
}
