package postgres

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"gorm.io/gorm"
)

type OrderRepository struct{ db *gorm.DB }

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	row := orderFromDomain(o)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if duplicate(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert order %s: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.first(r.db.WithContext(ctx).Clauses(forUpdate), id)
}

func (r *OrderRepository) first(q *gorm.DB, id string) (*domain.Order, error) {
	var row orderRow
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", userID, err)
	}
	out := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	res := r.db.WithContext(ctx).Model(&orderRow{}).Where("id = ?", o.ID).Updates(map[string]any{
		"status":     string(o.Status),
		"updated_at": o.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update order %s: %w", o.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
