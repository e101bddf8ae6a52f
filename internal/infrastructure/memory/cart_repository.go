package memory

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
)

type CartRepository struct{ a access }

func (r *CartRepository) Insert(ctx context.Context, c *domain.Cart) error {
	_ = ctx
	if c == nil || c.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}
	return r.a.write(func(st *state) error {
		if _, exists := st.carts[c.ID]; exists {
			return domain.ErrConflict
		}
		if c.Active {
			for _, other := range st.carts {
				if other.Active && other.UserID == c.UserID {
					return domain.ErrConflict
				}
			}
		}
		st.carts[c.ID] = c.Clone()
		return nil
	})
}

func (r *CartRepository) Get(ctx context.Context, id string) (*domain.Cart, error) {
	_ = ctx
	var out *domain.Cart
	err := r.a.read(func(st *state) error {
		c, ok := st.carts[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = c.Clone()
		return nil
	})
	return out, err
}

// GetForUpdate needs no row lock: units of work already run one at a time.
func (r *CartRepository) GetForUpdate(ctx context.Context, id string) (*domain.Cart, error) {
	return r.Get(ctx, id)
}

func (r *CartRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	_ = ctx
	var out *domain.Cart
	err := r.a.read(func(st *state) error {
		for _, c := range st.carts {
			if c.Active && c.UserID == userID {
				out = c.Clone()
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *CartRepository) Save(ctx context.Context, c *domain.Cart) error {
	_ = ctx
	if c == nil || c.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}
	return r.a.write(func(st *state) error {
		if _, exists := st.carts[c.ID]; !exists {
			return domain.ErrNotFound
		}
		st.carts[c.ID] = c.Clone()
		return nil
	})
}
