package order

import "context"

type Repository interface {
	// Insert fails with ErrConflict when the cart already produced an order.
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	GetForUpdate(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
}
