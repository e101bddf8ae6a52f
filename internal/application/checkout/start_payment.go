package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	domcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const (
	useCaseStartPayment = "checkout.start_payment"

	// sessionPlaceholder is substituted by the gateway with the real session id.
	sessionPlaceholder = "{CHECKOUT_SESSION_ID}"
)

type StartPaymentInput struct {
	OrderID string
}

type StartPaymentResult struct {
	CheckoutURL string
	SessionID   string
	InvoiceID   string
	InvoiceCode string
	Amount      decimal.Decimal
}

// StartPaymentUseCase opens a hosted checkout session for an order, reusing
// the order's open invoice when there is one. Deleted invoices still count
// towards the already-paid check but are never reused.
type StartPaymentUseCase struct{ *base }

func (uc *StartPaymentUseCase) Execute(ctx context.Context, cmd StartPaymentInput) (_ *StartPaymentResult, err error) {
	ctx, run := uc.in.Start(ctx, useCaseStartPayment, "StartPayment",
		attribute.String("order.id", cmd.OrderID),
	)
	defer func() { run.End(err) }()

	if strings.TrimSpace(cmd.OrderID) == "" {
		return nil, run.Fail("ORDER_ID_REQUIRED", apperr.Validation("order id is required"))
	}

	var (
		ord *domorder.Order
		inv *dominvoice.Invoice
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

		var reusable *dominvoice.Invoice
		for _, candidate := range invoices {
			if candidate.Completed() {
				return run.Fail("ALREADY_PAID", apperr.AlreadyPaid("order already has a completed invoice"))
			}
			if reusable == nil && candidate.Active && (candidate.PaymentStatus == dominvoice.PaymentPending ||
				candidate.PaymentStatus == dominvoice.PaymentFailed) {
				reusable = candidate
			}
		}

		if reusable != nil {
			if err := reusable.Reopen(o.Total); err != nil {
				return run.Fail("INVOICE_REOPEN_FAILED", invoiceError(err))
			}
			if err := repos.Invoices.Update(ctx, reusable); err != nil {
				return run.Fail("INVOICE_SAVE_FAILED", application.StoreError("invoice", err))
			}
			run.Status("INVOICE_REUSED")
			ord, inv = o, reusable
			return nil
		}

		created, err := dominvoice.New(uc.deps.IDs.NewID(), dominvoice.FormatCode(uc.deps.IDs.NewID()),
			o.ID, o.Total, dominvoice.MethodCard)
		if err != nil {
			return run.Fail("INVOICE_INVALID", invoiceError(err))
		}
		if err := repos.Invoices.Insert(ctx, created); err != nil {
			return run.Fail("INVOICE_INSERT_FAILED", application.StoreError("invoice", err))
		}
		ord, inv = o, created
		return nil
	})
	if err != nil {
		return nil, err
	}
	run.Field("invoice_id", inv.ID)
	run.Span().SetAttributes(attribute.String("invoice.id", inv.ID))

	req := payment.SessionRequest{
		LineItems:     uc.lineItems(ctx, run, ord),
		SuccessURL:    uc.successURL(inv.ID),
		CancelURL:     uc.cancelURL(inv.ID),
		CustomerEmail: uc.customerEmail(ctx, run, ord.UserID),
		Metadata:      payment.Metadata{InvoiceID: inv.ID, OrderID: ord.ID},
	}

	var sess *payment.Session
	err = uc.callGateway(ctx, "create_session", func(ctx context.Context) error {
		var gerr error
		sess, gerr = uc.deps.Gateway.CreateSession(ctx, req)
		return gerr
	})
	if err != nil {
		return nil, run.Fail("GATEWAY_FAILED", apperr.Gateway("payment provider unavailable, retry later", err))
	}

	err = uc.deps.UnitOfWork.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		current, err := repos.Invoices.GetAnyForUpdate(ctx, inv.ID)
		if err != nil {
			return err
		}
		current.AttachSession(sess.ID)
		inv = current
		return repos.Invoices.Update(ctx, current)
	})
	if err != nil {
		return nil, run.Fail("SESSION_SAVE_FAILED", application.StoreError("invoice", err))
	}

	return &StartPaymentResult{
		CheckoutURL: sess.URL,
		SessionID:   sess.ID,
		InvoiceID:   inv.ID,
		InvoiceCode: inv.Code,
		Amount:      inv.Amount,
	}, nil
}

// lineItems mirrors the cart lines the order was built from, or a single
// synthetic line for the whole total when they are unavailable.
func (uc *StartPaymentUseCase) lineItems(ctx context.Context, run *application.Run, o *domorder.Order) []payment.LineItem {
	fallback := []payment.LineItem{{
		Name:       "Order #" + o.ID,
		UnitAmount: o.Total,
		Quantity:   1,
	}}

	c, err := uc.deps.UnitOfWork.Repositories().Carts.Get(ctx, o.CartID)
	if err != nil {
		if !errors.Is(err, domcart.ErrNotFound) {
			run.Logger().Warn("cart_lines_unavailable", observability.F("error", err.Error()))
		}
		return fallback
	}
	active := c.ActiveItems()
	if len(active) == 0 {
		return fallback
	}

	items := make([]payment.LineItem, 0, len(active))
	for _, it := range active {
		li := payment.LineItem{
			Name:       it.ProductName,
			UnitAmount: it.UnitPrice,
			Quantity:   it.Quantity,
		}
		if uc.deps.Catalog != nil {
			if p, perr := uc.deps.Catalog.GetProduct(ctx, it.ProductID); perr == nil {
				if li.Name == "" {
					li.Name = p.Name
				}
				li.Description = p.Description()
			}
		}
		if li.Name == "" {
			li.Name = "Product " + it.ProductID
		}
		items = append(items, li)
	}
	return items
}

func (uc *StartPaymentUseCase) customerEmail(ctx context.Context, run *application.Run, userID string) string {
	if uc.deps.Users == nil {
		return ""
	}
	u, err := uc.deps.Users.GetUser(ctx, userID)
	if err != nil {
		run.Logger().Warn("customer_email_unavailable",
			observability.F("user_id", userID),
			observability.F("error", err.Error()),
		)
		return ""
	}
	return u.Email
}

func (uc *StartPaymentUseCase) successURL(invoiceID string) string {
	return strings.TrimRight(uc.deps.Config.PublicBaseURL, "/") +
		"/payments/success?session_id=" + sessionPlaceholder +
		"&invoice_id=" + url.QueryEscape(invoiceID)
}

func (uc *StartPaymentUseCase) cancelURL(invoiceID string) string {
	return strings.TrimRight(uc.deps.Config.PublicBaseURL, "/") +
		"/payments/cancel?invoice_id=" + url.QueryEscape(invoiceID)
}

func invoiceError(err error) error {
	switch {
	case errors.Is(err, dominvoice.ErrAlreadyCompleted):
		return apperr.AlreadyPaid("invoice is already paid")
	case errors.Is(err, dominvoice.ErrInvalidAmount):
		return apperr.New(apperr.KindValidation, "invoice amount must be greater than zero", err)
	case errors.Is(err, dominvoice.ErrInvalidMethod):
		return apperr.New(apperr.KindValidation, "unknown payment method", err)
	case errors.Is(err, dominvoice.ErrInvalidStateTransition):
		return apperr.Conflict("invoice cannot change payment status", err)
	default:
		return apperr.Internal("invoice update failed", err)
	}
}
