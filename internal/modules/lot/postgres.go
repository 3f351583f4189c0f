package lot

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

type postgresRepo struct{ db postgres.DBTX }

func NewPostgresRepository(db postgres.DBTX) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetWithLatestTest(ctx context.Context, id uuid.UUID) (*SeedLot, error) {
	l := &SeedLot{}
	var rate sql.NullInt64
	var testedOn sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT l.id, l.lot_code, l.variety_prefix, l.harvest_year, l.created_at,
		       g.germination_rate, g.tested_on
		FROM seed_lots l
		LEFT JOIN LATERAL (
		    SELECT germination_rate, tested_on FROM germination_tests
		    WHERE lot_id = l.id ORDER BY tested_on DESC LIMIT 1
		) g ON true
		WHERE l.id=$1`, id).Scan(
		&l.ID, &l.LotCode, &l.VarietyPrefix, &l.HarvestYear, &l.CreatedAt,
		&rate, &testedOn)
	if err != nil {
		return nil, err
	}
	if rate.Valid {
		v := int(rate.Int64)
		l.GerminationRate = &v
	}
	if testedOn.Valid {
		l.TestedOn = &testedOn.Time
	}
	return l, nil
}
