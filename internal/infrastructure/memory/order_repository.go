package memory

import (
	"context"
	"fmt"
	"sort"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
)

type OrderRepository struct{ a access }

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil || order.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	return r.a.write(func(st *state) error {
		if _, exists := st.orders[order.ID]; exists {
			return domain.ErrConflict
		}
		for _, other := range st.orders {
			if other.CartID == order.CartID {
				return domain.ErrConflict
			}
		}
		st.orders[order.ID] = order.Clone()
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx
	var out *domain.Order
	err := r.a.read(func(st *state) error {
		order, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = order.Clone()
		return nil
	})
	return out, err
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.Get(ctx, id)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	_ = ctx
	var out []*domain.Order
	err := r.a.read(func(st *state) error {
		for _, order := range st.orders {
			if order.UserID == userID {
				out = append(out, order.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil || order.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	return r.a.write(func(st *state) error {
		if _, exists := st.orders[order.ID]; !exists {
			return domain.ErrNotFound
		}
		st.orders[order.ID] = order.Clone()
		return nil
	})
}
