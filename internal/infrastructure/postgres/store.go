package postgres

import (
	"context"
	"errors"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store runs units of work as database transactions. Locking reads use
// SELECT ... FOR UPDATE, held until the transaction ends.
type Store struct {
	db *gorm.DB
}

var _ uow.UnitOfWork = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, repositories(tx))
	})
}

func (s *Store) Repositories() uow.Repositories {
	return repositories(s.db)
}

func repositories(db *gorm.DB) uow.Repositories {
	return uow.Repositories{
		Carts:     &CartRepository{db: db},
		Orders:    &OrderRepository{db: db},
		Invoices:  &InvoiceRepository{db: db},
		Inventory: &InventoryRepository{db: db},
	}
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func duplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
