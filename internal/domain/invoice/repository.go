package invoice

import "context"

// Repository reads only active (not soft-deleted) invoices unless stated
// otherwise. Soft delete hides an invoice from listings; it never erases
// payment history, so every payment path reads through the flag.
type Repository interface {
	Insert(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*Invoice, error)
	// GetAny and GetAnyForUpdate ignore the soft-delete flag.
	GetAny(ctx context.Context, id string) (*Invoice, error)
	GetAnyForUpdate(ctx context.Context, id string) (*Invoice, error)
	// FindBySession ignores the soft-delete flag.
	FindBySession(ctx context.Context, sessionID string) (*Invoice, error)
	// ListByOrder returns every invoice of the order, soft-deleted ones included.
	ListByOrder(ctx context.Context, orderID string) ([]*Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]*Invoice, error)
	ListActive(ctx context.Context) ([]*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
}
