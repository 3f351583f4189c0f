package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/batch"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/lot"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

// ingestLockKey is the pg_advisory_xact_lock key serializing ingestion runs
// across processes.
const ingestLockKey int64 = 0x5eed_0001

type postgresStore struct {
	db     *sql.DB
	orders order.Repository
}

func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db, orders: order.NewPostgresRepository(db)}
}

func (s *postgresStore) ExistingOrderNumbers(ctx context.Context, orderNumbers []string) ([]string, error) {
	return s.orders.ExistingNumbers(ctx, orderNumbers)
}

func (s *postgresStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingestion tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ingestLockKey); err != nil {
		return fmt.Errorf("acquire ingestion lock: %w", err)
	}

	if err := fn(ctx, &postgresTx{
		orders:  order.NewPostgresRepository(tx),
		catalog: catalog.NewPostgresRepository(tx),
		batches: batch.NewPostgresRepository(tx),
		labels:  lot.NewService(lot.NewPostgresRepository(tx)),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingestion: %w", err)
	}
	return nil
}

// postgresTx routes each write to the owning module's repository, all bound
// to the same *sql.Tx.
type postgresTx struct {
	orders  order.Repository
	catalog catalog.Repository
	batches batch.Repository
	labels  lot.Service
}

func (t *postgresTx) ExistingOrderNumbers(ctx context.Context, orderNumbers []string) ([]string, error) {
	return t.orders.ExistingNumbers(ctx, orderNumbers)
}

func (t *postgresTx) NextBatchSequence(ctx context.Context) (int64, error) {
	return t.batches.NextSequence(ctx)
}

func (t *postgresTx) InsertBatch(ctx context.Context, b *batch.Batch) error {
	return t.batches.Insert(ctx, b)
}

func (t *postgresTx) InsertOrder(ctx context.Context, o *order.Order) error {
	return t.orders.Insert(ctx, o)
}

func (t *postgresTx) LockStock(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return t.catalog.LockPrepackStock(ctx, productIDs)
}

func (t *postgresTx) SetStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return t.catalog.SetPrepackStock(ctx, productID, qty)
}

func (t *postgresTx) InsertAllocationRecords(ctx context.Context, records []batch.AllocationRecord) error {
	return t.batches.InsertRecords(ctx, records)
}

func (t *postgresTx) LabelFields(ctx context.Context, p *catalog.Product) (lot.Label, error) {
	return t.labels.LabelFields(ctx, p)
}
