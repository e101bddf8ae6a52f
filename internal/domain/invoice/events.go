package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCompletedEvent is emitted after an invoice settles and its order is confirmed.
type PaymentCompletedEvent struct {
	InvoiceID  string
	Code       string
	OrderID    string
	Amount     decimal.Decimal
	Method     PaymentMethod
	Source     string // redirect, webhook or manual
	OccurredAt time.Time
}

func (PaymentCompletedEvent) EventName() string { return "invoice.payment_completed" }
func (e PaymentCompletedEvent) EventKey() string { return e.OrderID }

func NewPaymentCompletedEvent(i *Invoice, source string) PaymentCompletedEvent {
	return PaymentCompletedEvent{
		InvoiceID:  i.ID,
		Code:       i.Code,
		OrderID:    i.OrderID,
		Amount:     i.Amount,
		Method:     i.PaymentMethod,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}

// PaymentFailedEvent is emitted when a checkout session is cancelled, expires or is declined.
type PaymentFailedEvent struct {
	InvoiceID  string
	OrderID    string
	Source     string
	OccurredAt time.Time
}

func (PaymentFailedEvent) EventName() string { return "invoice.payment_failed" }
func (e PaymentFailedEvent) EventKey() string { return e.OrderID }

func NewPaymentFailedEvent(i *Invoice, source string) PaymentFailedEvent {
	return PaymentFailedEvent{
		InvoiceID:  i.ID,
		OrderID:    i.OrderID,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}
