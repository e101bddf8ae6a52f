package cart

import "context"

type Repository interface {
	Insert(ctx context.Context, c *Cart) error
	Get(ctx context.Context, id string) (*Cart, error)
	// GetForUpdate reads the cart and locks it until the enclosing unit of work ends.
	GetForUpdate(ctx context.Context, id string) (*Cart, error)
	FindActiveByUser(ctx context.Context, userID string) (*Cart, error)
	// Save persists the cart flag and upserts every line.
	Save(ctx context.Context, c *Cart) error
}
