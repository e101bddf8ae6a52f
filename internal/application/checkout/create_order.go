package checkout

import (
	"context"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	domcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

const useCaseCreateOrder = "checkout.create_order"

type CreateOrderInput struct {
	CartID          string
	ShippingAddress string
	ContactPhone    string
	Notes           string
}

// CreateOrderUseCase converts an active cart into a pending order and freezes the cart.
type CreateOrderUseCase struct{ *base }

func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderInput) (_ *domorder.Order, err error) {
	ctx, run := uc.in.Start(ctx, useCaseCreateOrder, "CreateOrder",
		attribute.String("cart.id", cmd.CartID),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(cmd.CartID) == "" {
		return nil, run.Fail("CART_ID_REQUIRED", apperr.Validation("cart id is required"))
	}
	if strings.TrimSpace(cmd.ShippingAddress) == "" {
		return nil, run.Fail("SHIPPING_ADDRESS_REQUIRED", apperr.Validation("shipping address is required"))
	}
	if strings.TrimSpace(cmd.ContactPhone) == "" {
		return nil, run.Fail("CONTACT_PHONE_REQUIRED", apperr.Validation("contact phone is required"))
	}

	var (
		created *domorder.Order
		events  domoutbox.Batch
	)
	err = uc.deps.UnitOfWork.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		c, err := repos.Carts.GetForUpdate(ctx, cmd.CartID)
		if err != nil {
			return run.Fail("CART_LOOKUP_FAILED", application.StoreError("cart", err))
		}
		if !c.Active {
			return run.Fail("CART_INACTIVE", apperr.NotFound("cart not found or already checked out", domcart.ErrInactive))
		}
		if len(c.ActiveItems()) == 0 {
			return run.Fail("CART_EMPTY", apperr.EmptyCart("cart has no active items"))
		}

		o, derr := domorder.New(uc.deps.IDs.NewID(), c.UserID, c.ID, c.Total(),
			cmd.ShippingAddress, cmd.ContactPhone, cmd.Notes)
		if derr != nil {
			return run.Fail("ORDER_INVALID", apperr.New(apperr.KindValidation, derr.Error(), derr))
		}
		if err := repos.Orders.Insert(ctx, o); err != nil {
			return run.Fail("ORDER_INSERT_FAILED", application.StoreError("order", err))
		}

		c.Freeze()
		if err := repos.Carts.Save(ctx, c); err != nil {
			return run.Fail("CART_SAVE_FAILED", application.StoreError("cart", err))
		}

		created = o
		events.Add(domorder.NewOrderCreatedEvent(o))
		return nil
	})
	if err != nil {
		return nil, err
	}

	run.Span().SetAttributes(
		attribute.String("order.id", created.ID),
		attribute.String("order.total", created.Total.StringFixed(2)),
	)
	run.Field("order_id", created.ID)
	uc.publish(ctx, run, events)

	return created, nil
}
