package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	domcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
)

const (
	sourceRedirect = "redirect"
	sourceWebhook  = "webhook"
	sourceManual   = "manual"
)

// Settlement is the outcome of a verified payment success.
type Settlement struct {
	Invoice *dominvoice.Invoice
	Order   *domorder.Order
	Report  *dominv.Report
	// ItemsCleared counts cart lines deactivated by this settlement.
	ItemsCleared int
	// AlreadyCompleted is true when an earlier delivery settled the invoice;
	// nothing was changed this time.
	AlreadyCompleted bool
}

// complete applies a gateway-verified success in one unit of work: invoice
// completed, order confirmed, stock decremented, cart lines cleared.
// Locks are taken order, invoice, cart, then stock rows. A soft-deleted
// invoice still settles and is restored so the captured payment stays visible.
func (b *base) complete(ctx context.Context, run *application.Run, invoiceID, paymentIntentID, source string) (*Settlement, domoutbox.Batch, error) {
	current, err := b.deps.UnitOfWork.Repositories().Invoices.GetAny(ctx, invoiceID)
	if err != nil {
		return nil, nil, run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
	}
	if current.Completed() {
		run.Status("ALREADY_COMPLETED")
		return &Settlement{Invoice: current, AlreadyCompleted: true}, nil, nil
	}

	var (
		out    Settlement
		events domoutbox.Batch
	)
	err = b.deps.UnitOfWork.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, current.OrderID)
		if err != nil {
			return run.Fail("ORDER_LOOKUP_FAILED", application.StoreError("order", err))
		}
		inv, err := repos.Invoices.GetAnyForUpdate(ctx, invoiceID)
		if err != nil {
			return run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
		}
		if inv.Completed() {
			out = Settlement{Invoice: inv, Order: o, AlreadyCompleted: true}
			return nil
		}

		siblings, err := repos.Invoices.ListByOrder(ctx, o.ID)
		if err != nil {
			return run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
		}
		for _, s := range siblings {
			if s.ID != inv.ID && s.Completed() {
				run.Logger().Error("duplicate_payment_detected",
					observability.F("order_id", o.ID),
					observability.F("invoice_id", inv.ID),
					observability.F("settled_invoice_id", s.ID),
					observability.F("payment_intent_id", paymentIntentID),
				)
				return run.Fail("DUPLICATE_PAYMENT", apperr.AlreadyPaid("order already settled by invoice "+s.Code))
			}
		}

		if err := inv.Complete(dominvoice.MethodCard, paymentIntentID, time.Now()); err != nil {
			return run.Fail("INVALID_TRANSITION", invoiceError(err))
		}
		if !inv.Active {
			inv.Restore()
			run.Logger().Warn("settled_deleted_invoice",
				observability.F("invoice_id", inv.ID),
				observability.F("payment_intent_id", paymentIntentID),
			)
		}
		o.Confirm()

		var lines []dominv.Line
		c, err := repos.Carts.GetForUpdate(ctx, o.CartID)
		switch {
		case err == nil:
			for _, it := range c.ActiveItems() {
				lines = append(lines, dominv.Line{ProductID: it.ProductID, ProductName: it.ProductName, Quantity: it.Quantity})
			}
		case errors.Is(err, domcart.ErrNotFound):
			c = nil
			run.Logger().Warn("settlement_cart_missing", observability.F("cart_id", o.CartID))
		default:
			return run.Fail("CART_LOOKUP_FAILED", application.StoreError("cart", err))
		}

		report := b.deps.Decrementer.Apply(ctx, repos.Inventory, lines)

		cleared := 0
		if c != nil {
			cleared = c.DeactivateItems()
			if err := repos.Carts.Save(ctx, c); err != nil {
				return run.Fail("CART_SAVE_FAILED", application.StoreError("cart", err))
			}
		}
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return run.Fail("INVOICE_SAVE_FAILED", application.StoreError("invoice", err))
		}
		if err := repos.Orders.Update(ctx, o); err != nil {
			return run.Fail("ORDER_SAVE_FAILED", application.StoreError("order", err))
		}

		out = Settlement{Invoice: inv, Order: o, Report: report, ItemsCleared: cleared}
		events.Add(dominvoice.NewPaymentCompletedEvent(inv, source))
		if !report.Clean() {
			events.Add(dominv.NewShortfallEvent(o.ID, inv.ID, report))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if out.AlreadyCompleted {
		run.Status("ALREADY_COMPLETED")
		return &out, nil, nil
	}
	run.Field("order_id", out.Order.ID)
	run.Field("items_processed", len(out.Report.Processed))
	run.Field("items_short", len(out.Report.Shortfalls))
	if !out.Report.Clean() {
		run.Status("COMPLETED_WITH_SHORTFALL")
	}
	return &out, events, nil
}

// errSessionSuperseded reports a failure signal for a checkout session the
// invoice no longer points at.
var errSessionSuperseded = errors.New("checkout session superseded")

// fail marks an invoice failed. A completed invoice is left alone and
// returned with changed=false. When sessionID is set and the invoice has
// since moved to another session, nothing changes and errSessionSuperseded
// is returned.
func (b *base) fail(ctx context.Context, run *application.Run, invoiceID, sessionID, source string) (_ *dominvoice.Invoice, changed bool, events domoutbox.Batch, err error) {
	var inv *dominvoice.Invoice
	err = b.deps.UnitOfWork.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		current, err := repos.Invoices.GetAnyForUpdate(ctx, invoiceID)
		if err != nil {
			return run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
		}
		inv = current
		if current.Completed() {
			return nil
		}
		if sessionID != "" && current.SessionID != "" && current.SessionID != sessionID {
			run.Status("SESSION_SUPERSEDED")
			run.Logger().Info("stale_session_failure_ignored",
				observability.F("invoice_id", current.ID),
				observability.F("session_id", sessionID),
				observability.F("current_session_id", current.SessionID),
			)
			return errSessionSuperseded
		}
		wasFailed := current.PaymentStatus == dominvoice.PaymentFailed
		if err := current.Fail(); err != nil {
			return run.Fail("INVALID_TRANSITION", invoiceError(err))
		}
		if err := repos.Invoices.Update(ctx, current); err != nil {
			return run.Fail("INVOICE_SAVE_FAILED", application.StoreError("invoice", err))
		}
		if !wasFailed {
			changed = true
			events.Add(dominvoice.NewPaymentFailedEvent(current, source))
		}
		return nil
	})
	if err != nil {
		return nil, false, nil, err
	}
	if inv.Completed() {
		run.Status("ALREADY_COMPLETED")
	}
	return inv, changed, events, nil
}
