package batch

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	batches   []*Batch
	lastLimit int
}

func (m *memoryRepo) NextSequence(context.Context) (int64, error) {
	return int64(len(m.batches) + 1), nil
}

func (m *memoryRepo) Insert(_ context.Context, b *Batch) error {
	m.batches = append(m.batches, b)
	return nil
}

func (m *memoryRepo) InsertRecords(_ context.Context, records []AllocationRecord) error {
	for _, rec := range records {
		for _, b := range m.batches {
			if b.ID == rec.BatchID {
				b.Records = append(b.Records, rec)
			}
		}
	}
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Batch, error) {
	for _, b := range m.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepo) List(_ context.Context, limit int) ([]*Batch, error) {
	m.lastLimit = limit
	return m.batches, nil
}

func TestFormatNumber(t *testing.T) {
	day := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "20250307-0001", FormatNumber(day, 1))
	assert.Equal(t, "20250307-12345", FormatNumber(day, 12345))
}

func TestAction_Valid(t *testing.T) {
	assert.True(t, ActionPrint.Valid())
	assert.True(t, ActionPull.Valid())
	assert.False(t, Action("SHIP").Valid())
}

func TestService_GetBatch(t *testing.T) {
	repo := &memoryRepo{}
	id := uuid.New()
	require.NoError(t, repo.Insert(context.Background(), &Batch{ID: id, BatchNumber: "20250307-0001"}))
	require.NoError(t, repo.InsertRecords(context.Background(), []AllocationRecord{
		{ID: uuid.New(), BatchID: id, SKU: "BEA-PRO-1lb", Action: ActionPull, Quantity: 4},
	}))
	svc := NewService(repo)

	b, err := svc.GetBatch(context.Background(), id.String())
	require.NoError(t, err)
	assert.Len(t, b.Records, 1)

	_, err = svc.GetBatch(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetBatch(context.Background(), "not-a-uuid")
	assert.ErrorContains(t, err, "invalid batch id")
}

func TestService_ListBatches_Limits(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, defaultListLimit},
		{-3, defaultListLimit},
		{20, 20},
		{10000, maxListLimit},
	}
	for _, tt := range tests {
		repo := &memoryRepo{}
		_, err := NewService(repo).ListBatches(context.Background(), tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, repo.lastLimit)
	}
}
