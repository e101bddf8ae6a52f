package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
)

type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

type IDGenerator interface {
	NewID() string
}

// StoreError classifies a repository failure for the boundary.
func StoreError(what string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, cart.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, invoice.ErrNotFound),
		errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, identity.ErrNotFound):
		return apperr.NotFound(what+" not found", err)
	case errors.Is(err, cart.ErrConflict),
		errors.Is(err, order.ErrConflict):
		return apperr.Conflict(what+" already exists", err)
	default:
		return apperr.Internal("storage failure", fmt.Errorf("%s: %w", what, err))
	}
}
