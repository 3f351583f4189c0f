package lot

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
)

type stubRepo struct {
	lots map[uuid.UUID]*SeedLot
	err  error
}

func (s *stubRepo) GetWithLatestTest(_ context.Context, id uuid.UUID) (*SeedLot, error) {
	if s.err != nil {
		return nil, s.err
	}
	l, ok := s.lots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return l, nil
}

func TestService_LabelFields(t *testing.T) {
	lotID := uuid.New()
	missing := uuid.New()
	rate := 92
	repo := &stubRepo{lots: map[uuid.UUID]*SeedLot{
		lotID: {ID: lotID, LotCode: "L24-117", GerminationRate: &rate},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	base := catalog.Product{
		VarietyPrefix: "BEA-PRO",
		SKUSuffix:     "1lb",
		PackageSize:   "1 lb",
		LabelLines:    []string{"Provider Bush Bean", "Organic"},
	}

	t.Run("no lot", func(t *testing.T) {
		p := base
		label, err := svc.LabelFields(ctx, &p)
		require.NoError(t, err)
		assert.Equal(t, "1 lb", label.PackageSize)
		assert.Empty(t, label.LotCode)
		assert.Nil(t, label.GerminationRate)
	})

	t.Run("with tested lot", func(t *testing.T) {
		p := base
		p.LotID = &lotID
		label, err := svc.LabelFields(ctx, &p)
		require.NoError(t, err)
		assert.Equal(t, "L24-117", label.LotCode)
		require.NotNil(t, label.GerminationRate)
		assert.Equal(t, 92, *label.GerminationRate)
		assert.Equal(t, []string{"Provider Bush Bean", "Organic"}, label.Lines)
	})

	t.Run("dangling lot", func(t *testing.T) {
		p := base
		p.LotID = &missing
		label, err := svc.LabelFields(ctx, &p)
		require.NoError(t, err)
		assert.Empty(t, label.LotCode)
	})

	t.Run("lookup failure", func(t *testing.T) {
		p := base
		p.LotID = &lotID
		_, err := NewService(&stubRepo{err: errors.New("timeout")}).LabelFields(ctx, &p)
		assert.ErrorContains(t, err, "timeout")
	})
}
