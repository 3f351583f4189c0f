package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for products and their pre-pack stock.
type Repository interface {
	// GetProduct returns sql.ErrNoRows when no product has that prefix/suffix.
	GetProduct(ctx context.Context, prefix, suffix string) (*Product, error)

	// GetMiscProduct returns sql.ErrNoRows when the flat SKU is unknown.
	GetMiscProduct(ctx context.Context, sku string) (*MiscProduct, error)

	// LockPrepackStock reads the counters of the given products and holds a
	// row lock on them until the surrounding transaction ends.
	LockPrepackStock(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error)

	// SetPrepackStock overwrites a counter. Only the ingestion unit of work calls it.
	SetPrepackStock(ctx context.Context, productID uuid.UUID, qty int) error

	// AddPrepackStock increments a counter and returns the new value.
	AddPrepackStock(ctx context.Context, productID uuid.UUID, qty int) (int, error)
}
