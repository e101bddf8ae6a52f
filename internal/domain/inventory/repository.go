package inventory

import "context"

// Repository only surfaces active stock rows; inactive ones read as ErrNotFound.
type Repository interface {
	Get(ctx context.Context, productID string) (*Stock, error)
	GetForUpdate(ctx context.Context, productID string) (*Stock, error)
	Update(ctx context.Context, s *Stock) error
}
