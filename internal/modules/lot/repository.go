package lot

import (
	"context"

	"github.com/google/uuid"
)

// Repository reads seed lots. Lots are maintained elsewhere; this module only reads them.
type Repository interface {
	// GetWithLatestTest returns sql.ErrNoRows when the lot does not exist.
	GetWithLatestTest(ctx context.Context, id uuid.UUID) (*SeedLot, error)
}
