package operator

import "context"

// Repository defines data access for operators.
type Repository interface {
	Create(ctx context.Context, op *Operator) error
	GetByEmail(ctx context.Context, email string) (*Operator, error)
}
