package memory

import (
	"context"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
)

type InventoryRepository struct{ a access }

func (r *InventoryRepository) Get(ctx context.Context, productID string) (*domain.Stock, error) {
	_ = ctx
	var out *domain.Stock
	err := r.a.read(func(st *state) error {
		s, ok := st.stock[productID]
		if !ok || !s.Active {
			return domain.ErrNotFound
		}
		out = s.Clone()
		return nil
	})
	return out, err
}

func (r *InventoryRepository) GetForUpdate(ctx context.Context, productID string) (*domain.Stock, error) {
	return r.Get(ctx, productID)
}

func (r *InventoryRepository) Update(ctx context.Context, s *domain.Stock) error {
	_ = ctx
	if s == nil {
		return nil
	}
	return r.a.write(func(st *state) error {
		if _, ok := st.stock[s.ProductID]; !ok {
			return domain.ErrNotFound
		}
		st.stock[s.ProductID] = s.Clone()
		return nil
	})
}
