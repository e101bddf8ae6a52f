package memory

import (
	"context"
	"sync"

	domcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
)

// Store is an in-process implementation of uow.UnitOfWork. Units of work are
// serialized by one mutex and operate on a staged copy that replaces the live
// state only when fn succeeds, so a failed unit leaves no trace.
type Store struct {
	mu sync.RWMutex
	st *state
}

var _ uow.UnitOfWork = (*Store)(nil)

type state struct {
	carts    map[string]*domcart.Cart
	orders   map[string]*domorder.Order
	invoices map[string]*dominvoice.Invoice
	stock    map[string]*dominv.Stock
}

func newState() *state {
	return &state{
		carts:    make(map[string]*domcart.Cart),
		orders:   make(map[string]*domorder.Order),
		invoices: make(map[string]*dominvoice.Invoice),
		stock:    make(map[string]*dominv.Stock),
	}
}

func (s *state) clone() *state {
	out := &state{
		carts:    make(map[string]*domcart.Cart, len(s.carts)),
		orders:   make(map[string]*domorder.Order, len(s.orders)),
		invoices: make(map[string]*dominvoice.Invoice, len(s.invoices)),
		stock:    make(map[string]*dominv.Stock, len(s.stock)),
	}
	for k, v := range s.carts {
		out.carts[k] = v.Clone()
	}
	for k, v := range s.orders {
		out.orders[k] = v.Clone()
	}
	for k, v := range s.invoices {
		out.invoices[k] = v.Clone()
	}
	for k, v := range s.stock {
		out.stock[k] = v.Clone()
	}
	return out
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	if err := fn(ctx, repositories(access{st: staged})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = staged
	return nil
}

func (s *Store) Repositories() uow.Repositories {
	return repositories(access{store: s})
}

// PutStock seeds or replaces a stock row outside any unit of work.
func (s *Store) PutStock(stock *dominv.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.stock[stock.ProductID] = stock.Clone()
}

func repositories(a access) uow.Repositories {
	return uow.Repositories{
		Carts:     &CartRepository{a: a},
		Orders:    &OrderRepository{a: a},
		Invoices:  &InvoiceRepository{a: a},
		Inventory: &InventoryRepository{a: a},
	}
}

// access routes repository calls either to a staged state owned by a running
// unit of work (already locked) or to the live state under the store lock.
type access struct {
	st    *state
	store *Store
}

func (a access) read(fn func(*state) error) error {
	if a.st != nil {
		return fn(a.st)
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	return fn(a.store.st)
}

func (a access) write(fn func(*state) error) error {
	if a.st != nil {
		return fn(a.st)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.st)
}
