package postgres

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	"gorm.io/gorm"
)

type InvoiceRepository struct{ db *gorm.DB }

func (r *InvoiceRepository) Insert(ctx context.Context, inv *domain.Invoice) error {
	row := invoiceFromDomain(inv)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert invoice %s: %w", inv.ID, err)
	}
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND active", id))
}

func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.first(r.db.WithContext(ctx).Clauses(forUpdate).Where("id = ? AND active", id))
}

func (r *InvoiceRepository) GetAny(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *InvoiceRepository) GetAnyForUpdate(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.first(r.db.WithContext(ctx).Clauses(forUpdate).Where("id = ?", id))
}

func (r *InvoiceRepository) FindBySession(ctx context.Context, sessionID string) (*domain.Invoice, error) {
	if sessionID == "" {
		return nil, domain.ErrNotFound
	}
	return r.first(r.db.WithContext(ctx).Where("session_id = ?", sessionID))
}

func (r *InvoiceRepository) first(q *gorm.DB) (*domain.Invoice, error) {
	var row invoiceRow
	if err := q.First(&row).Error; err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return row.toDomain(), nil
}

func (r *InvoiceRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.Invoice, error) {
	return r.find(r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC"))
}

func (r *InvoiceRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	return r.find(r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Where("orders.user_id = ? AND invoices.active", userID).
		Order("invoices.created_at DESC"))
}

func (r *InvoiceRepository) ListActive(ctx context.Context) ([]*domain.Invoice, error) {
	return r.find(r.db.WithContext(ctx).Where("active").Order("created_at DESC"))
}

func (r *InvoiceRepository) find(q *gorm.DB) ([]*domain.Invoice, error) {
	var rows []invoiceRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]*domain.Invoice, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	row := invoiceFromDomain(inv)
	res := r.db.WithContext(ctx).Model(&invoiceRow{}).Where("id = ?", inv.ID).Updates(map[string]any{
		"amount":            row.Amount,
		"payment_status":    row.PaymentStatus,
		"payment_method":    row.PaymentMethod,
		"session_id":        row.SessionID,
		"payment_intent_id": row.PaymentIntentID,
		"paid_at":           row.PaidAt,
		"active":            row.Active,
		"updated_at":        row.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update invoice %s: %w", inv.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
