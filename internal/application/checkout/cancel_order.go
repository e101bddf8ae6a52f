package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

const (
	useCaseCancelOrder  = "checkout.cancel_order"
	useCaseUpdateStatus = "checkout.update_order_status"
)

type CancelOrderInput struct {
	OrderID string
}

// CancelOrderUseCase cancels an order whatever its current status. Stock is
// not restored and completed invoices are not refunded.
type CancelOrderUseCase struct{ *base }

func (uc *CancelOrderUseCase) Execute(ctx context.Context, cmd CancelOrderInput) (_ *domorder.Order, err error) {
	ctx, run := uc.in.Start(ctx, useCaseCancelOrder, "CancelOrder",
		attribute.String("order.id", cmd.OrderID),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(cmd.OrderID) == "" {
		return nil, run.Fail("ORDER_ID_REQUIRED", apperr.Validation("order id is required"))
	}

	o, events, err := uc.transition(ctx, run, cmd.OrderID, domorder.StatusCancelled)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, run, events)
	return o, nil
}

type UpdateOrderStatusInput struct {
	OrderID string
	Status  string
}

// UpdateOrderStatusUseCase moves an order to any known status (fulfillment staff workflow).
type UpdateOrderStatusUseCase struct{ *base }

func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, cmd UpdateOrderStatusInput) (_ *domorder.Order, err error) {
	ctx, run := uc.in.Start(ctx, useCaseUpdateStatus, "UpdateOrderStatus",
		attribute.String("order.id", cmd.OrderID),
		attribute.String("order.status", cmd.Status),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(cmd.OrderID) == "" {
		return nil, run.Fail("ORDER_ID_REQUIRED", apperr.Validation("order id is required"))
	}
	status, perr := domorder.ParseStatus(cmd.Status)
	if perr != nil {
		return nil, run.Fail("STATUS_INVALID", apperr.New(apperr.KindValidation, "unknown order status "+cmd.Status, perr))
	}

	o, events, err := uc.transition(ctx, run, cmd.OrderID, status)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, run, events)
	return o, nil
}

func (b *base) transition(ctx context.Context, run *application.Run, orderID string, status domorder.Status) (*domorder.Order, domoutbox.Batch, error) {
	var (
		updated *domorder.Order
		events  domoutbox.Batch
	)
	err := b.deps.UnitOfWork.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return run.Fail("ORDER_LOOKUP_FAILED", application.StoreError("order", err))
		}
		previous := o.Status
		if status == domorder.StatusCancelled {
			o.Cancel()
		} else if err := o.SetStatus(status); err != nil {
			if errors.Is(err, domorder.ErrInvalidStatus) {
				return run.Fail("STATUS_INVALID", apperr.New(apperr.KindValidation, "unknown order status", err))
			}
			return run.Fail("STATUS_UPDATE_FAILED", err)
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return run.Fail("ORDER_SAVE_FAILED", application.StoreError("order", err))
		}
		if status == domorder.StatusCancelled && previous != domorder.StatusCancelled {
			events.Add(domorder.NewOrderCancelledEvent(o, previous))
		}
		run.Field("previous_status", string(previous))
		updated = o
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, events, nil
}
