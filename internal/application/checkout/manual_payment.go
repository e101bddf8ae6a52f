package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const useCaseManualPayment = "checkout.manual_payment"

type ManualPaymentInput struct {
	OrderID string
	Method  string
	// Amount defaults to the order total when nil.
	Amount *decimal.Decimal
}

// ManualPaymentUseCase records a payment taken outside the gateway (cash,
// bank transfer, QR). The invoice is completed immediately and the order
// confirmed; stock and cart are left to the staff member handling the sale.
type ManualPaymentUseCase struct{ *base }

func (uc *ManualPaymentUseCase) Execute(ctx context.Context, cmd ManualPaymentInput) (_ *dominvoice.Invoice, err error) {
	ctx, run := uc.in.Start(ctx, useCaseManualPayment, "ManualPayment",
		attribute.String("order.id", cmd.OrderID),
		attribute.String("payment.method", cmd.Method),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(cmd.OrderID) == "" {
		return nil, run.Fail("ORDER_ID_REQUIRED", apperr.Validation("order id is required"))
	}
	method, merr := dominvoice.ParseMethod(cmd.Method)
	if merr != nil {
		return nil, run.Fail("METHOD_INVALID", invoiceError(merr))
	}
	if method == dominvoice.MethodCard {
		return nil, run.Fail("METHOD_INVALID", apperr.Validation("card payments go through the checkout session"))
	}

	var (
		created *dominvoice.Invoice
		events  domoutbox.Batch
	)
	err = uc.deps.UnitOfWork.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return run.Fail("ORDER_LOOKUP_FAILED", application.StoreError("order", err))
		}
		invoices, err := repos.Invoices.ListByOrder(ctx, o.ID)
		if err != nil {
			return run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
		}
		for _, existing := range invoices {
			if existing.Completed() {
				return run.Fail("ALREADY_PAID", apperr.AlreadyPaid("order already has a completed invoice"))
			}
		}

		amount := o.Total
		if cmd.Amount != nil {
			amount = *cmd.Amount
		}
		inv, err := dominvoice.New(uc.deps.IDs.NewID(), dominvoice.FormatCode(uc.deps.IDs.NewID()), o.ID, amount, method)
		if err != nil {
			return run.Fail("INVOICE_INVALID", invoiceError(err))
		}
		if err := inv.Complete(method, "", time.Now()); err != nil {
			return run.Fail("INVALID_TRANSITION", invoiceError(err))
		}
		o.Confirm()

		if err := repos.Invoices.Insert(ctx, inv); err != nil {
			return run.Fail("INVOICE_INSERT_FAILED", application.StoreError("invoice", err))
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return run.Fail("ORDER_SAVE_FAILED", application.StoreError("order", err))
		}
		created = inv
		events.Add(dominvoice.NewPaymentCompletedEvent(inv, sourceManual))
		return nil
	})
	if err != nil {
		return nil, err
	}

	run.Field("invoice_id", created.ID)
	uc.publish(ctx, run, events)
	return created, nil
}
