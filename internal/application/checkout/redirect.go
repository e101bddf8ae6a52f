package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

const (
	useCaseConfirmRedirect = "checkout.confirm_redirect"
	useCaseCancelRedirect  = "checkout.cancel_redirect"
)

type ConfirmRedirectInput struct {
	SessionID string
	InvoiceID string
}

// ConfirmRedirectUseCase handles the customer returning from the hosted
// checkout page. The redirect itself proves nothing: the session is looked up
// at the gateway before any state changes.
type ConfirmRedirectUseCase struct{ *base }

func (uc *ConfirmRedirectUseCase) Execute(ctx context.Context, cmd ConfirmRedirectInput) (_ *Settlement, err error) {
	ctx, run := uc.in.Start(ctx, useCaseConfirmRedirect, "ConfirmRedirect",
		attribute.String("invoice.id", cmd.InvoiceID),
		attribute.String("payment.session_id", cmd.SessionID),
	)
	defer func() { run.End(err) }()

	sessionID := strings.TrimSpace(cmd.SessionID)
	if sessionID == "" || sessionID == sessionPlaceholder {
		return nil, run.Fail("SESSION_ID_REQUIRED", apperr.Validation("checkout session id is missing"))
	}
	if strings.TrimSpace(cmd.InvoiceID) == "" {
		return nil, run.Fail("INVOICE_ID_REQUIRED", apperr.Validation("invoice id is required"))
	}

	inv, err := uc.deps.UnitOfWork.Repositories().Invoices.GetAny(ctx, cmd.InvoiceID)
	if err != nil {
		return nil, run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
	}
	if inv.Completed() {
		run.Status("ALREADY_COMPLETED")
		return &Settlement{Invoice: inv, AlreadyCompleted: true}, nil
	}

	var details *payment.SessionDetails
	err = uc.callGateway(ctx, "get_session", func(ctx context.Context) error {
		var gerr error
		details, gerr = uc.deps.Gateway.GetSession(ctx, sessionID)
		return gerr
	})
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, run.Fail("SESSION_NOT_FOUND", apperr.NotFound("checkout session not found", err))
		}
		return nil, run.Fail("GATEWAY_FAILED", apperr.Gateway("could not verify payment, retry later", err))
	}
	if !sessionBelongsTo(details, inv) {
		return nil, run.Fail("SESSION_MISMATCH", apperr.Validation("checkout session does not belong to this invoice"))
	}

	switch details.Status {
	case payment.SessionPaid:
		settlement, events, err := uc.complete(ctx, run, inv.ID, details.PaymentIntentID, sourceRedirect)
		if err != nil {
			return nil, err
		}
		uc.publish(ctx, run, events)
		return settlement, nil
	case payment.SessionExpired:
		_, _, events, err := uc.fail(ctx, run, inv.ID, details.ID, sourceRedirect)
		if errors.Is(err, errSessionSuperseded) {
			return nil, run.Fail("SESSION_SUPERSEDED", apperr.PaymentIncomplete("checkout session was replaced by a newer one"))
		}
		if err != nil {
			return nil, err
		}
		uc.publish(ctx, run, events)
		return nil, run.Fail("SESSION_EXPIRED", apperr.PaymentIncomplete("checkout session expired before payment"))
	default:
		return nil, run.Fail("PAYMENT_NOT_COMPLETED", apperr.PaymentIncomplete("payment has not been completed"))
	}
}

// sessionBelongsTo prefers the metadata echoed by the gateway and falls back
// to the session id recorded when the session was opened.
func sessionBelongsTo(s *payment.SessionDetails, inv *dominvoice.Invoice) bool {
	if s.Metadata.InvoiceID != "" {
		return s.Metadata.InvoiceID == inv.ID
	}
	return inv.SessionID != "" && inv.SessionID == s.ID
}

type CancelRedirectInput struct {
	InvoiceID string
}

// CancelRedirectUseCase handles the gateway's cancel URL: the customer left
// the hosted page without paying.
type CancelRedirectUseCase struct{ *base }

func (uc *CancelRedirectUseCase) Execute(ctx context.Context, cmd CancelRedirectInput) (_ *dominvoice.Invoice, err error) {
	ctx, run := uc.in.Start(ctx, useCaseCancelRedirect, "CancelRedirect",
		attribute.String("invoice.id", cmd.InvoiceID),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(cmd.InvoiceID) == "" {
		return nil, run.Fail("INVOICE_ID_REQUIRED", apperr.Validation("invoice id is required"))
	}

	inv, _, events, err := uc.fail(ctx, run, cmd.InvoiceID, "", sourceRedirect)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, run, events)
	return inv, nil
}
