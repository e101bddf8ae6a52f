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

const useCasePaymentStatus = "checkout.payment_status"

type PaymentStatusInput struct {
	InvoiceID string
}

type PaymentStatusResult struct {
	Invoice *dominvoice.Invoice
	// GatewayStatus is empty when no checkout session was ever opened.
	GatewayStatus payment.SessionStatus
	// CheckoutURL is set while the session can still be paid.
	CheckoutURL string
}

// PaymentStatusUseCase reports an invoice together with the live session
// state at the gateway. It never changes the invoice.
type PaymentStatusUseCase struct{ *base }

func (uc *PaymentStatusUseCase) Execute(ctx context.Context, cmd PaymentStatusInput) (_ *PaymentStatusResult, err error) {
	ctx, run := uc.in.Start(ctx, useCasePaymentStatus, "PaymentStatus",
		attribute.String("invoice.id", cmd.InvoiceID),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(cmd.InvoiceID) == "" {
		return nil, run.Fail("INVOICE_ID_REQUIRED", apperr.Validation("invoice id is required"))
	}
	inv, err := uc.deps.UnitOfWork.Repositories().Invoices.Get(ctx, cmd.InvoiceID)
	if err != nil {
		return nil, run.Fail("INVOICE_LOOKUP_FAILED", application.StoreError("invoice", err))
	}

	res := &PaymentStatusResult{Invoice: inv}
	if inv.SessionID == "" {
		run.Status("NO_SESSION")
		return res, nil
	}

	var details *payment.SessionDetails
	err = uc.callGateway(ctx, "get_session", func(ctx context.Context) error {
		var gerr error
		details, gerr = uc.deps.Gateway.GetSession(ctx, inv.SessionID)
		return gerr
	})
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, run.Fail("SESSION_NOT_FOUND", apperr.NotFound("checkout session not found", err))
		}
		return nil, run.Fail("GATEWAY_FAILED", apperr.Gateway("could not reach payment provider", err))
	}

	res.GatewayStatus = details.Status
	if details.Status == payment.SessionOpen {
		res.CheckoutURL = details.URL
	}
	return res, nil
}
