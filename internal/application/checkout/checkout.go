// Package checkout coordinates the cart to fulfillment workflow: order
// creation, payment sessions, payment confirmation, stock decrement and
// cart clearing.
package checkout

import (
	"context"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	appinv "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
)

const (
	checkoutService = "checkout-service"

	peerGateway = "payment_gateway"
	peerOutbox  = "outbox"

	defaultGatewayTimeout = 10 * time.Second
	defaultPublishTimeout = 300 * time.Millisecond
)

// EventLedger remembers processed webhook event ids so redeliveries can be
// acknowledged without touching the database. The invoice state guard stays
// authoritative; a ledger only saves work.
type EventLedger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Remember(ctx context.Context, eventID string) error
}

type Config struct {
	// PublicBaseURL is where the gateway sends the customer back, e.g. https://shop.example.com.
	PublicBaseURL  string
	GatewayTimeout time.Duration
	PublishTimeout time.Duration
}

type Dependencies struct {
	UnitOfWork  uow.UnitOfWork
	Gateway     payment.Gateway
	Users       identity.Store
	Catalog     catalog.Store
	Publisher   domoutbox.Publisher
	Ledger      EventLedger // optional
	IDs         application.IDGenerator
	Decrementer *appinv.Decrementer
	Config      Config
	Telemetry   observability.Observability
}

// Coordinator groups the checkout use cases sharing one set of dependencies.
type Coordinator struct {
	CreateOrder       *CreateOrderUseCase
	StartPayment      *StartPaymentUseCase
	ConfirmRedirect   *ConfirmRedirectUseCase
	CancelRedirect    *CancelRedirectUseCase
	Webhook           *WebhookUseCase
	CancelOrder       *CancelOrderUseCase
	UpdateOrderStatus *UpdateOrderStatusUseCase
	ManualPayment     *ManualPaymentUseCase
	PaymentStatus     *PaymentStatusUseCase
}

func New(deps Dependencies) *Coordinator {
	if deps.Config.GatewayTimeout <= 0 {
		deps.Config.GatewayTimeout = defaultGatewayTimeout
	}
	if deps.Config.PublishTimeout <= 0 {
		deps.Config.PublishTimeout = defaultPublishTimeout
	}
	if deps.Telemetry == nil {
		deps.Telemetry = observability.Nop()
	}
	if deps.Decrementer == nil {
		deps.Decrementer = appinv.NewDecrementer(deps.Telemetry.Logger())
	}
	b := &base{deps: deps, in: application.NewInstruments(deps.Telemetry, checkoutService)}
	return &Coordinator{
		CreateOrder:       &CreateOrderUseCase{base: b},
		StartPayment:      &StartPaymentUseCase{base: b},
		ConfirmRedirect:   &ConfirmRedirectUseCase{base: b},
		CancelRedirect:    &CancelRedirectUseCase{base: b},
		Webhook:           newWebhookUseCase(b),
		CancelOrder:       &CancelOrderUseCase{base: b},
		UpdateOrderStatus: &UpdateOrderStatusUseCase{base: b},
		ManualPayment:     &ManualPaymentUseCase{base: b},
		PaymentStatus:     &PaymentStatusUseCase{base: b},
	}
}

type base struct {
	deps Dependencies
	in   *application.Instruments
}

// callGateway bounds fn with the gateway timeout and records it as an external call.
func (b *base) callGateway(ctx context.Context, endpoint string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.deps.Config.GatewayTimeout)
	defer cancel()
	return b.in.External(peerGateway, endpoint, func() error { return fn(ctx) })
}

// publish fans out events raised by a committed unit of work. Failures are
// logged on the run and never undo the committed state.
func (b *base) publish(ctx context.Context, run *application.Run, events domoutbox.Batch) {
	if b.deps.Publisher == nil {
		return
	}
	for _, e := range events {
		pubCtx, cancel := context.WithTimeout(ctx, b.deps.Config.PublishTimeout)
		err := b.in.External(peerOutbox, e.EventName(), func() error {
			return b.deps.Publisher.Publish(pubCtx, e)
		})
		cancel()
		if err != nil {
			run.Field("event_publish_error", err.Error())
			run.Logger().Warn("event_publish_failed",
				observability.F("event", e.EventName()),
				observability.F("error", err.Error()),
			)
		}
	}
}
