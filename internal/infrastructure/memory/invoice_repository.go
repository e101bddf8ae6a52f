package memory

import (
	"context"
	"fmt"
	"sort"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
)

type InvoiceRepository struct{ a access }

func (r *InvoiceRepository) Insert(ctx context.Context, inv *domain.Invoice) error {
	_ = ctx
	if inv == nil || inv.ID == "" {
		return fmt.Errorf("invoice repository: id is required")
	}
	return r.a.write(func(st *state) error {
		if _, exists := st.invoices[inv.ID]; exists {
			return fmt.Errorf("invoice repository: duplicate id %s", inv.ID)
		}
		for _, other := range st.invoices {
			if other.Code == inv.Code {
				return fmt.Errorf("invoice repository: duplicate code %s", inv.Code)
			}
		}
		st.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepository) find(id string, includeInactive bool) (*domain.Invoice, error) {
	var out *domain.Invoice
	err := r.a.read(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok || (!inv.Active && !includeInactive) {
			return domain.ErrNotFound
		}
		out = inv.Clone()
		return nil
	})
	return out, err
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	_ = ctx
	return r.find(id, false)
}

func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.Get(ctx, id)
}

func (r *InvoiceRepository) GetAny(ctx context.Context, id string) (*domain.Invoice, error) {
	_ = ctx
	return r.find(id, true)
}

func (r *InvoiceRepository) GetAnyForUpdate(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.GetAny(ctx, id)
}

func (r *InvoiceRepository) FindBySession(ctx context.Context, sessionID string) (*domain.Invoice, error) {
	_ = ctx
	var out *domain.Invoice
	err := r.a.read(func(st *state) error {
		for _, inv := range st.invoices {
			if sessionID != "" && inv.SessionID == sessionID {
				out = inv.Clone()
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *InvoiceRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.Invoice, error) {
	_ = ctx
	return r.list(func(st *state, inv *domain.Invoice) bool { return inv.OrderID == orderID }, false, true)
}

func (r *InvoiceRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	_ = ctx
	return r.list(func(st *state, inv *domain.Invoice) bool {
		o, ok := st.orders[inv.OrderID]
		return ok && o.UserID == userID
	}, true, false)
}

func (r *InvoiceRepository) ListActive(ctx context.Context) ([]*domain.Invoice, error) {
	_ = ctx
	return r.list(func(*state, *domain.Invoice) bool { return true }, true, false)
}

func (r *InvoiceRepository) list(keep func(*state, *domain.Invoice) bool, newestFirst, includeInactive bool) ([]*domain.Invoice, error) {
	var out []*domain.Invoice
	err := r.a.read(func(st *state) error {
		for _, inv := range st.invoices {
			if (inv.Active || includeInactive) && keep(st, inv) {
				out = append(out, inv.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	_ = ctx
	if inv == nil || inv.ID == "" {
		return fmt.Errorf("invoice repository: id is required")
	}
	return r.a.write(func(st *state) error {
		if _, exists := st.invoices[inv.ID]; !exists {
			return domain.ErrNotFound
		}
		st.invoices[inv.ID] = inv.Clone()
		return nil
	})
}
