package inventory

import (
	"context"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

const (
	alertService          = "inventory-alerts"
	useCaseShortfallRaise = "inventory.shortfall_alert"

	reasonInsufficientStock = "insufficient_stock"
	reasonDecrementError    = "decrement_error"
)

type AlertResult struct {
	Lines int
}

// ShortfallAlertUseCase turns a shortfall report into operator-facing signals:
// one error log per short line and the inventory_shortfall_total counter.
// Product ids stay in the logs and the event; the counter only carries the reason.
type ShortfallAlertUseCase struct {
	in         *application.Instruments
	shortfalls observability.Counter
}

func NewShortfallAlertUseCase(tel observability.Observability) *ShortfallAlertUseCase {
	in := application.NewInstruments(tel, alertService)
	return &ShortfallAlertUseCase{
		in:         in,
		shortfalls: in.Counter(observability.MInventoryShortfalls),
	}
}

func (uc *ShortfallAlertUseCase) Execute(ctx context.Context, evt dominv.ShortfallEvent) (_ *AlertResult, err error) {
	_, run := uc.in.Start(ctx, useCaseShortfallRaise, "ShortfallAlert",
		attribute.String("order.id", evt.OrderID),
		attribute.Int("shortfall.lines", len(evt.Shortfalls)),
	)
	defer func() { run.End(err) }()

	for _, s := range evt.Shortfalls {
		uc.shortfalls.Add(1, observability.L("reason", reasonInsufficientStock))
		run.Logger().Error("inventory_shortfall_alert",
			observability.F("order_id", evt.OrderID),
			observability.F("invoice_id", evt.InvoiceID),
			observability.F("product_id", s.ProductID),
			observability.F("requested", s.Requested),
			observability.F("available", s.Available),
		)
	}
	for _, msg := range evt.Errors {
		uc.shortfalls.Add(1, observability.L("reason", reasonDecrementError))
		run.Logger().Error("inventory_decrement_error",
			observability.F("order_id", evt.OrderID),
			observability.F("detail", msg),
		)
	}
	if len(evt.Errors) > 0 {
		run.Status("DECREMENT_ERRORS_REPORTED")
	}
	run.Field("order_id", evt.OrderID)

	return &AlertResult{Lines: len(evt.Shortfalls) + len(evt.Errors)}, nil
}
