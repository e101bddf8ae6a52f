package inventory

import "time"

// ShortfallEvent is emitted when a paid order could not be fully served from
// stock. It feeds operational alerting; the order stays confirmed.
type ShortfallEvent struct {
	OrderID    string
	InvoiceID  string
	Shortfalls []Shortfall
	Errors     []string
	OccurredAt time.Time
}

func (ShortfallEvent) EventName() string { return "inventory.shortfall" }
func (e ShortfallEvent) EventKey() string { return e.OrderID }

func NewShortfallEvent(orderID, invoiceID string, r *Report) ShortfallEvent {
	return ShortfallEvent{
		OrderID:    orderID,
		InvoiceID:  invoiceID,
		Shortfalls: append([]Shortfall(nil), r.Shortfalls...),
		Errors:     append([]string(nil), r.Errors...),
		OccurredAt: time.Now().UTC(),
	}
}
