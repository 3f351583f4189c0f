package operator

import (
	"context"

	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository creates a new PostgreSQL operator repository.
func NewPostgresRepository(db postgres.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, op *Operator) error {
	query := `
		INSERT INTO operators (id, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, op.ID, op.Email, op.PasswordHash, op.DisplayName)
	return err
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	op := &Operator{}
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM operators
		WHERE email = $1
	`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&op.ID,
		&op.Email,
		&op.PasswordHash,
		&op.DisplayName,
		&op.CreatedAt,
		&op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return op, nil
}
