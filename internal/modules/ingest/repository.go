package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/batch"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

// Store is the persistence boundary of an ingestion run.
type Store interface {
	// ExistingOrderNumbers returns the given order numbers that are already committed.
	ExistingOrderNumbers(ctx context.Context, orderNumbers []string) ([]string, error)

	// InTx runs fn in one transaction holding the ingestion lock. Any error
	// from fn rolls back every write made through tx.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of writes an ingestion commit performs.
type Tx interface {
	ExistingOrderNumbers(ctx context.Context, orderNumbers []string) ([]string, error)
	NextBatchSequence(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, b *batch.Batch) error
	InsertOrder(ctx context.Context, o *order.Order) error

	// LockStock reads pre-pack counters and holds their row locks until commit.
	LockStock(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error)
	SetStock(ctx context.Context, productID uuid.UUID, qty int) error
	InsertAllocationRecords(ctx context.Context, records []batch.AllocationRecord) error

	// Labels are read on the transaction's own connection.
	Labeler
}
