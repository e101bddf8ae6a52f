package postgres

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	"gorm.io/gorm"
)

// Catalog reads products owned by the catalog service's tables.
type Catalog struct{ db *gorm.DB }

func NewCatalog(db *gorm.DB) *Catalog { return &Catalog{db: db} }

func (c *Catalog) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var row productRow
	if err := c.db.WithContext(ctx).Where("id = ? AND active", id).First(&row).Error; err != nil {
		if notFound(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return row.toDomain(), nil
}

type Directory struct{ db *gorm.DB }

func NewDirectory(db *gorm.DB) *Directory { return &Directory{db: db} }

func (d *Directory) GetUser(ctx context.Context, id string) (*identity.User, error) {
	var row userRow
	if err := d.db.WithContext(ctx).Where("id = ? AND active", id).First(&row).Error; err != nil {
		if notFound(err) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return row.toDomain(), nil
}
