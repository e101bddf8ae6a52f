package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("catalog: product not found")

// Product is the read model the checkout needs from the catalog.
type Product struct {
	ID       string
	Name     string
	Brand    string
	Category string
	Price    decimal.Decimal
	Active   bool
}

// Description renders "brand - category" for payment line items.
func (p *Product) Description() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{p.Brand, p.Category} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}

type Store interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}
