package postgres

import (
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"github.com/shopspring/decimal"
)

type productRow struct {
	ID       string          `gorm:"primaryKey;type:varchar(64)"`
	Name     string `gorm:"not null"`
	Brand    string
	Category string
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Active   bool            `gorm:"not null;default:true"`
}

func (productRow) TableName() string { return "products" }

func (r *productRow) toDomain() *catalog.Product {
	return &catalog.Product{ID: r.ID, Name: r.Name, Brand: r.Brand, Category: r.Category, Price: r.Price, Active: r.Active}
}

type userRow struct {
	ID       string `gorm:"primaryKey;type:varchar(64)"`
	Username string `gorm:"not null"`
	Email    string
	Active   bool `gorm:"not null;default:true"`
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toDomain() *identity.User {
	return &identity.User{ID: r.ID, Username: r.Username, Email: r.Email, Active: r.Active}
}

// cartRow carries a partial unique index so a user holds at most one active cart.
type cartRow struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	UserID    string `gorm:"type:varchar(64);not null;index:idx_carts_user_active,unique,where:active"`
	Active    bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (cartRow) TableName() string { return "carts" }

type cartItemRow struct {
	ID          string          `gorm:"primaryKey;type:varchar(64)"`
	CartID      string          `gorm:"type:varchar(64);not null;index"`
	ProductID   string          `gorm:"type:varchar(64);not null"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Active      bool            `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (cartItemRow) TableName() string { return "cart_items" }

func cartFromDomain(c *cart.Cart) (cartRow, []cartItemRow) {
	row := cartRow{ID: c.ID, UserID: c.UserID, Active: c.Active, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	items := make([]cartItemRow, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, cartItemRow{
			ID:          it.ID,
			CartID:      c.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Active:      it.Active,
			CreatedAt:   it.CreatedAt,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	return row, items
}

func cartToDomain(row cartRow, items []cartItemRow) *cart.Cart {
	c := &cart.Cart{ID: row.ID, UserID: row.UserID, Active: row.Active, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}
	for _, it := range items {
		c.Items = append(c.Items, &cart.Item{
			ID:          it.ID,
			CartID:      it.CartID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Active:      it.Active,
			CreatedAt:   it.CreatedAt,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	return c
}

// orderRow's unique cart_id makes a second order from one cart a duplicate key.
type orderRow struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)"`
	UserID          string          `gorm:"type:varchar(64);not null;index"`
	CartID          string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status          string          `gorm:"type:varchar(16);not null"`
	ShippingAddress string          `gorm:"not null"`
	ContactPhone    string          `gorm:"type:varchar(20);not null"`
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (orderRow) TableName() string { return "orders" }

func orderFromDomain(o *order.Order) orderRow {
	return orderRow{
		ID:              o.ID,
		UserID:          o.UserID,
		CartID:          o.CartID,
		Total:           o.Total,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		ContactPhone:    o.ContactPhone,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r *orderRow) toDomain() *order.Order {
	return &order.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		CartID:          r.CartID,
		Total:           r.Total,
		Status:          order.Status(r.Status),
		ShippingAddress: r.ShippingAddress,
		ContactPhone:    r.ContactPhone,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type invoiceRow struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)"`
	Code            string          `gorm:"type:varchar(16);not null;uniqueIndex"`
	OrderID         string          `gorm:"type:varchar(64);not null;index"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentStatus   string          `gorm:"type:varchar(16);not null"`
	PaymentMethod   string          `gorm:"type:varchar(16);not null"`
	SessionID       string          `gorm:"type:varchar(255);index"`
	PaymentIntentID string          `gorm:"type:varchar(255)"`
	PaidAt          *time.Time
	Active          bool `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (invoiceRow) TableName() string { return "invoices" }

func invoiceFromDomain(i *invoice.Invoice) invoiceRow {
	return invoiceRow{
		ID:              i.ID,
		Code:            i.Code,
		OrderID:         i.OrderID,
		Amount:          i.Amount,
		PaymentStatus:   string(i.PaymentStatus),
		PaymentMethod:   string(i.PaymentMethod),
		SessionID:       i.SessionID,
		PaymentIntentID: i.PaymentIntentID,
		PaidAt:          i.PaidAt,
		Active:          i.Active,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func (r *invoiceRow) toDomain() *invoice.Invoice {
	return &invoice.Invoice{
		ID:              r.ID,
		Code:            r.Code,
		OrderID:         r.OrderID,
		Amount:          r.Amount,
		PaymentStatus:   invoice.PaymentStatus(r.PaymentStatus),
		PaymentMethod:   invoice.PaymentMethod(r.PaymentMethod),
		SessionID:       r.SessionID,
		PaymentIntentID: r.PaymentIntentID,
		PaidAt:          r.PaidAt,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type stockRow struct {
	ProductID string `gorm:"primaryKey;type:varchar(64)"`
	Quantity  int    `gorm:"not null;check:quantity >= 0"`
	Location  string
	Active    bool `gorm:"not null;default:true"`
	UpdatedAt time.Time
}

func (stockRow) TableName() string { return "inventory" }

func (r *stockRow) toDomain() *inventory.Stock {
	return &inventory.Stock{ProductID: r.ProductID, Quantity: r.Quantity, Location: r.Location, Active: r.Active, UpdatedAt: r.UpdatedAt}
}
