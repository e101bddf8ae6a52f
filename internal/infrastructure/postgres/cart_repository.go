package postgres

import (
	"context"
	"fmt"
	"time"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct{ db *gorm.DB }

func (r *CartRepository) Insert(ctx context.Context, c *domain.Cart) error {
	row, items := cartFromDomain(c)
	db := r.db.WithContext(ctx)
	if err := db.Create(&row).Error; err != nil {
		if duplicate(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert cart %s: %w", c.ID, err)
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("insert cart items %s: %w", c.ID, err)
		}
	}
	return nil
}

func (r *CartRepository) Get(ctx context.Context, id string) (*domain.Cart, error) {
	return r.load(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *CartRepository) GetForUpdate(ctx context.Context, id string) (*domain.Cart, error) {
	return r.load(r.db.WithContext(ctx).Clauses(forUpdate).Where("id = ?", id))
}

func (r *CartRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	return r.load(r.db.WithContext(ctx).Where("user_id = ? AND active", userID))
}

func (r *CartRepository) load(q *gorm.DB) (*domain.Cart, error) {
	var row cartRow
	if err := q.First(&row).Error; err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var items []cartItemRow
	if err := r.db.WithContext(q.Statement.Context).
		Where("cart_id = ?", row.ID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("get cart items %s: %w", row.ID, err)
	}
	return cartToDomain(row, items), nil
}

func (r *CartRepository) Save(ctx context.Context, c *domain.Cart) error {
	row, items := cartFromDomain(c)
	db := r.db.WithContext(ctx)
	res := db.Model(&cartRow{}).Where("id = ?", c.ID).Updates(map[string]any{
		"active":     row.Active,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		if duplicate(res.Error) {
			return domain.ErrConflict
		}
		return fmt.Errorf("save cart %s: %w", c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	if len(items) == 0 {
		return nil
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "product_name", "active", "updated_at"}),
	}).Create(&items).Error; err != nil {
		return fmt.Errorf("save cart items %s: %w", c.ID, err)
	}
	return nil
}
