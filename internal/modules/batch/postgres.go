package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

type postgresRepo struct{ db postgres.DBTX }

func NewPostgresRepository(db postgres.DBTX) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) + 1 FROM fulfillment_batches`).Scan(&seq)
	return seq, err
}

func (r *postgresRepo) Insert(ctx context.Context, b *Batch) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fulfillment_batches
		  (id, batch_number, sequence, order_count, order_number_start, order_number_end,
		   order_date_start, order_date_end)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		b.ID, b.BatchNumber, b.Sequence, b.OrderCount, b.OrderNumberStart, b.OrderNumberEnd,
		b.OrderDateStart, b.OrderDateEnd)
	if err != nil {
		return fmt.Errorf("insert batch %s: %w", b.BatchNumber, err)
	}
	return nil
}

func (r *postgresRepo) InsertRecords(ctx context.Context, records []AllocationRecord) error {
	for _, rec := range records {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO allocation_records (id, batch_id, sku, action, quantity)
			VALUES ($1,$2,$3,$4,$5)`,
			rec.ID, rec.BatchID, rec.SKU, rec.Action, rec.Quantity)
		if err != nil {
			return fmt.Errorf("insert allocation record %s/%s: %w", rec.SKU, rec.Action, err)
		}
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Batch, error) {
	b, err := r.scan(r.db.QueryRowContext(ctx, `
		SELECT id, batch_number, sequence, order_count, order_number_start, order_number_end,
		       order_date_start, order_date_end, created_at
		FROM fulfillment_batches WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, batch_id, sku, action, quantity
		FROM allocation_records WHERE batch_id=$1 ORDER BY action, sku`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rec AllocationRecord
		if err := rows.Scan(&rec.ID, &rec.BatchID, &rec.SKU, &rec.Action, &rec.Quantity); err != nil {
			return nil, err
		}
		b.Records = append(b.Records, rec)
	}
	return b, rows.Err()
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]*Batch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, batch_number, sequence, order_count, order_number_start, order_number_end,
		       order_date_start, order_date_end, created_at
		FROM fulfillment_batches ORDER BY sequence DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var batches []*Batch
	for rows.Next() {
		b, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ── scanner ───────────────────────────────────────────────────────────────────

func (r *postgresRepo) scan(row postgres.RowScanner) (*Batch, error) {
	b := &Batch{}
	err := row.Scan(&b.ID, &b.BatchNumber, &b.Sequence, &b.OrderCount,
		&b.OrderNumberStart, &b.OrderNumberEnd, &b.OrderDateStart, &b.OrderDateEnd, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}
