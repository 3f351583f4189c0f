package batch

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for batches and their allocation records.
type Repository interface {
	// NextSequence returns the next batch sequence. Only safe under the ingestion lock.
	NextSequence(ctx context.Context) (int64, error)
	Insert(ctx context.Context, b *Batch) error
	InsertRecords(ctx context.Context, records []AllocationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	List(ctx context.Context, limit int) ([]*Batch, error)
}
