// Package uow defines the transactional boundary shared by every write path.
package uow

import (
	"context"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
)

// Repositories is the set of stores visible inside one unit of work.
type Repositories struct {
	Carts     cart.Repository
	Orders    order.Repository
	Invoices  invoice.Repository
	Inventory inventory.Repository
}

// UnitOfWork runs fn atomically: every write made through repos commits
// together or not at all. Locking reads (GetForUpdate) hold their rows until
// fn returns. Callers acquire locks in the order order, invoice, cart, stock.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// Repositories returns non-transactional repositories for plain reads.
	Repositories() Repositories
}
