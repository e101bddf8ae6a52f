package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	domcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

const cartService = "cart-service"

// Service manages the shopping cart of each user ahead of checkout.
type Service struct {
	uow     uow.UnitOfWork
	users   identity.Store
	catalog catalog.Store
	ids     application.IDGenerator
	in      *application.Instruments
}

func NewService(u uow.UnitOfWork, users identity.Store, products catalog.Store, ids application.IDGenerator, tel observability.Observability) *Service {
	return &Service{
		uow:     u,
		users:   users,
		catalog: products,
		ids:     ids,
		in:      application.NewInstruments(tel, cartService),
	}
}

// ActiveCart returns the user's open cart, creating it on first access.
func (s *Service) ActiveCart(ctx context.Context, userID string) (_ *domcart.Cart, err error) {
	ctx, run := s.in.Start(ctx, "cart.active", "ActiveCart", attribute.String("user.id", userID))
	defer func() { run.End(err) }()

	if strings.TrimSpace(userID) == "" {
		return nil, run.Fail("USER_ID_REQUIRED", apperr.Validation("user id is required"))
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, run.Fail("USER_LOOKUP_FAILED", application.StoreError("user", err))
	}
	if !u.Active {
		return nil, run.Fail("USER_INACTIVE", apperr.NotFound("user not found", identity.ErrNotFound))
	}

	var out *domcart.Cart
	err = s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		c, err := repos.Carts.FindActiveByUser(ctx, userID)
		switch {
		case err == nil:
			out = c
			return nil
		case !errors.Is(err, domcart.ErrNotFound):
			return run.Fail("CART_LOOKUP_FAILED", application.StoreError("cart", err))
		}
		c = domcart.New(s.ids.NewID(), userID)
		if err := repos.Carts.Insert(ctx, c); err != nil {
			return run.Fail("CART_INSERT_FAILED", application.StoreError("cart", err))
		}
		run.Status("CART_CREATED")
		out = c
		return nil
	})
	if errors.Is(err, apperr.ErrConflict) {
		// Lost a creation race against a concurrent request; the winner's cart is the one.
		out, err = s.uow.Repositories().Carts.FindActiveByUser(ctx, userID)
		if err != nil {
			return nil, run.Fail("CART_LOOKUP_FAILED", application.StoreError("cart", err))
		}
		run.Recover("CART_CREATED_CONCURRENTLY")
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, cartID string) (_ *domcart.Cart, err error) {
	ctx, run := s.in.Start(ctx, "cart.get", "GetCart", attribute.String("cart.id", cartID))
	defer func() { run.End(err) }()

	c, err := s.uow.Repositories().Carts.Get(ctx, cartID)
	if err != nil {
		return nil, run.Fail("CART_LOOKUP_FAILED", application.StoreError("cart", err))
	}
	return c, nil
}

type AddItemInput struct {
	CartID    string
	ProductID string
	Quantity  int
}

// AddItem merges into the product's active line or adds a line priced at the
// product's current catalog price.
func (s *Service) AddItem(ctx context.Context, cmd AddItemInput) (_ *domcart.Cart, err error) {
	ctx, run := s.in.Start(ctx, "cart.add_item", "AddItem",
		attribute.String("cart.id", cmd.CartID),
		attribute.String("product.id", cmd.ProductID),
	)
	defer func() { run.End(err) }()

	if cmd.Quantity <= 0 {
		return nil, run.Fail("QUANTITY_INVALID", apperr.Validation("quantity must be greater than zero"))
	}
	p, err := s.catalog.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, run.Fail("PRODUCT_LOOKUP_FAILED", application.StoreError("product", err))
	}
	if !p.Active {
		return nil, run.Fail("PRODUCT_INACTIVE", apperr.Validation("product is not available"))
	}

	return s.mutate(ctx, run, cmd.CartID, func(c *domcart.Cart) error {
		_, err := c.AddItem(s.ids.NewID(), p.ID, p.Name, cmd.Quantity, p.Price)
		return err
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (_ *domcart.Cart, err error) {
	ctx, run := s.in.Start(ctx, "cart.update_quantity", "UpdateQuantity",
		attribute.String("cart.id", cartID),
		attribute.String("cart.item_id", itemID),
	)
	defer func() { run.End(err) }()

	return s.mutate(ctx, run, cartID, func(c *domcart.Cart) error {
		_, err := c.UpdateQuantity(itemID, quantity)
		return err
	})
}

func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) (_ *domcart.Cart, err error) {
	ctx, run := s.in.Start(ctx, "cart.remove_item", "RemoveItem",
		attribute.String("cart.id", cartID),
		attribute.String("cart.item_id", itemID),
	)
	defer func() { run.End(err) }()

	return s.mutate(ctx, run, cartID, func(c *domcart.Cart) error {
		return c.RemoveItem(itemID)
	})
}

func (s *Service) RestoreItem(ctx context.Context, cartID, itemID string) (_ *domcart.Cart, err error) {
	ctx, run := s.in.Start(ctx, "cart.restore_item", "RestoreItem",
		attribute.String("cart.id", cartID),
		attribute.String("cart.item_id", itemID),
	)
	defer func() { run.End(err) }()

	return s.mutate(ctx, run, cartID, func(c *domcart.Cart) error {
		_, err := c.RestoreItem(itemID)
		return err
	})
}

// Clear soft-deletes every active line of an open cart.
func (s *Service) Clear(ctx context.Context, cartID string) (_ *domcart.Cart, err error) {
	ctx, run := s.in.Start(ctx, "cart.clear", "ClearCart", attribute.String("cart.id", cartID))
	defer func() { run.End(err) }()

	return s.mutate(ctx, run, cartID, func(c *domcart.Cart) error {
		if !c.Active {
			return domcart.ErrInactive
		}
		run.Field("items_cleared", c.DeactivateItems())
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, run *application.Run, cartID string, change func(*domcart.Cart) error) (*domcart.Cart, error) {
	var out *domcart.Cart
	err := s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		c, err := repos.Carts.GetForUpdate(ctx, cartID)
		if err != nil {
			return run.Fail("CART_LOOKUP_FAILED", application.StoreError("cart", err))
		}
		if err := change(c); err != nil {
			return cartError(run, err)
		}
		if err := repos.Carts.Save(ctx, c); err != nil {
			return run.Fail("CART_SAVE_FAILED", application.StoreError("cart", err))
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func cartError(run *application.Run, err error) error {
	switch {
	case errors.Is(err, domcart.ErrInactive):
		return run.Fail("CART_INACTIVE", apperr.New(apperr.KindValidation, "cart is no longer open", err))
	case errors.Is(err, domcart.ErrInvalidQuantity):
		return run.Fail("QUANTITY_INVALID", apperr.New(apperr.KindValidation, "quantity must be greater than zero", err))
	case errors.Is(err, domcart.ErrItemNotFound):
		return run.Fail("ITEM_NOT_FOUND", apperr.NotFound("cart item not found", err))
	case errors.Is(err, domcart.ErrDuplicateItem):
		return run.Fail("ITEM_DUPLICATE", apperr.Conflict("product already has an active line in this cart", err))
	default:
		return run.Fail("CART_UPDATE_FAILED", apperr.Internal("cart update failed", err))
	}
}
