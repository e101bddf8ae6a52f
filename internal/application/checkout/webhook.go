package checkout

import (
	"context"
	"errors"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

const useCaseWebhook = "checkout.webhook"

// Webhook outcomes, also used as the outcome label of payment_webhook_events_total.
const (
	WebhookCompleted        = "completed"
	WebhookFailed           = "failed"
	WebhookAlreadySettled   = "already_settled"
	WebhookAwaitingPayment  = "awaiting_payment"
	WebhookInvoiceNotFound  = "invoice_not_found"
	WebhookIgnored          = "ignored"
	WebhookDuplicateEvent   = "duplicate_event"
	WebhookProcessingFailed = "processing_failed"
	WebhookStaleSession     = "stale_session"
)

type WebhookInput struct {
	Payload   []byte
	Signature string
}

type WebhookResult struct {
	EventID   string
	EventType string
	Outcome   string
}

// WebhookUseCase applies gateway notifications. Only an authentication
// failure is returned as an error; anything else is logged and acknowledged
// so the gateway does not retry a delivery that can never succeed.
type WebhookUseCase struct {
	*base
	events observability.Counter
}

func newWebhookUseCase(b *base) *WebhookUseCase {
	return &WebhookUseCase{base: b, events: b.in.Counter(observability.MWebhookEvents)}
}

func (uc *WebhookUseCase) Execute(ctx context.Context, cmd WebhookInput) (_ *WebhookResult, err error) {
	ctx, run := uc.in.Start(ctx, useCaseWebhook, "PaymentWebhook")
	defer func() { run.End(err) }()

	evt, err := uc.deps.Gateway.VerifyWebhook(cmd.Payload, cmd.Signature)
	if err != nil {
		uc.events.Add(1, observability.L("event_type", "unknown"), observability.L("outcome", "rejected"))
		return nil, run.Fail("SIGNATURE_INVALID", apperr.Signature(err))
	}
	run.Span().SetAttributes(
		attribute.String("webhook.event_id", evt.ID),
		attribute.String("webhook.event_type", string(evt.Type)),
	)
	run.Field("event_id", evt.ID)
	run.Field("event_type", string(evt.Type))

	res := &WebhookResult{EventID: evt.ID, EventType: string(evt.Type)}
	defer func() {
		uc.events.Add(1,
			observability.L("event_type", res.EventType),
			observability.L("outcome", res.Outcome),
		)
		run.Field("webhook_outcome", res.Outcome)
	}()

	if uc.deps.Ledger != nil && evt.ID != "" {
		seen, lerr := uc.deps.Ledger.Seen(ctx, evt.ID)
		switch {
		case lerr != nil:
			run.Logger().Warn("webhook_ledger_unavailable", observability.F("error", lerr.Error()))
		case seen:
			res.Outcome = WebhookDuplicateEvent
			run.Status("DUPLICATE_EVENT")
			return res, nil
		}
	}

	outcome, events, perr := uc.dispatch(ctx, run, evt)
	res.Outcome = outcome
	if perr != nil {
		res.Outcome = WebhookProcessingFailed
		run.Status("PROCESSING_FAILED")
		run.Field("processing_error", perr.Error())
		run.Logger().Error("webhook_processing_failed",
			observability.F("event_id", evt.ID),
			observability.F("error", perr.Error()),
		)
		return res, nil
	}
	uc.publish(ctx, run, events)

	if uc.deps.Ledger != nil && evt.ID != "" {
		if lerr := uc.deps.Ledger.Remember(ctx, evt.ID); lerr != nil {
			run.Logger().Warn("webhook_ledger_write_failed", observability.F("error", lerr.Error()))
		}
	}
	return res, nil
}

func (uc *WebhookUseCase) dispatch(ctx context.Context, run *application.Run, evt *payment.Event) (string, domoutbox.Batch, error) {
	if evt.Session == nil {
		return WebhookIgnored, nil, nil
	}

	var succeed bool
	switch evt.Type {
	case payment.EventCheckoutCompleted:
		if evt.Session.Status != payment.SessionPaid {
			// Delayed payment methods finish with async_payment_succeeded.
			return WebhookAwaitingPayment, nil, nil
		}
		succeed = true
	case payment.EventAsyncPaymentSucceeded:
		succeed = true
	case payment.EventCheckoutExpired, payment.EventAsyncPaymentFailed:
		succeed = false
	default:
		return WebhookIgnored, nil, nil
	}

	inv, err := uc.resolveInvoice(ctx, evt.Session)
	if err != nil {
		if errors.Is(err, dominvoice.ErrNotFound) {
			run.Logger().Warn("webhook_invoice_not_found",
				observability.F("session_id", evt.Session.ID),
				observability.F("invoice_id", evt.Session.Metadata.InvoiceID),
			)
			return WebhookInvoiceNotFound, nil, nil
		}
		return "", nil, err
	}
	run.Field("invoice_id", inv.ID)

	if succeed {
		settlement, events, err := uc.complete(ctx, run, inv.ID, evt.Session.PaymentIntentID, sourceWebhook)
		if err != nil {
			return "", nil, err
		}
		if settlement.AlreadyCompleted {
			return WebhookAlreadySettled, nil, nil
		}
		return WebhookCompleted, events, nil
	}

	_, changed, events, err := uc.fail(ctx, run, inv.ID, evt.Session.ID, sourceWebhook)
	if errors.Is(err, errSessionSuperseded) {
		return WebhookStaleSession, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	if !changed {
		return WebhookAlreadySettled, nil, nil
	}
	return WebhookFailed, events, nil
}

func (uc *WebhookUseCase) resolveInvoice(ctx context.Context, s *payment.SessionDetails) (*dominvoice.Invoice, error) {
	invoices := uc.deps.UnitOfWork.Repositories().Invoices
	if s.Metadata.InvoiceID != "" {
		return invoices.GetAny(ctx, s.Metadata.InvoiceID)
	}
	if s.ID == "" {
		return nil, dominvoice.ErrNotFound
	}
	return invoices.FindBySession(ctx, s.ID)
}
