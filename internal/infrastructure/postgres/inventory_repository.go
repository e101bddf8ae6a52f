package postgres

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"gorm.io/gorm"
)

type InventoryRepository struct{ db *gorm.DB }

func (r *InventoryRepository) Get(ctx context.Context, productID string) (*domain.Stock, error) {
	return r.first(r.db.WithContext(ctx), productID)
}

func (r *InventoryRepository) GetForUpdate(ctx context.Context, productID string) (*domain.Stock, error) {
	return r.first(r.db.WithContext(ctx).Clauses(forUpdate), productID)
}

func (r *InventoryRepository) first(q *gorm.DB, productID string) (*domain.Stock, error) {
	var row stockRow
	if err := q.Where("product_id = ? AND active", productID).First(&row).Error; err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock %s: %w", productID, err)
	}
	return row.toDomain(), nil
}

func (r *InventoryRepository) Update(ctx context.Context, s *domain.Stock) error {
	res := r.db.WithContext(ctx).Model(&stockRow{}).Where("product_id = ?", s.ProductID).Updates(map[string]any{
		"quantity":   s.Quantity,
		"updated_at": s.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update stock %s: %w", s.ProductID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
