package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is emitted once a cart has been converted into an order.
type OrderCreatedEvent struct {
	OrderID    string
	UserID     string
	CartID     string
	Total      decimal.Decimal
	OccurredAt time.Time
}

func (OrderCreatedEvent) EventName() string { return "order.created" }
func (e OrderCreatedEvent) EventKey() string { return e.OrderID }

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    o.ID,
		UserID:     o.UserID,
		CartID:     o.CartID,
		Total:      o.Total,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderCancelledEvent is emitted when an order is cancelled, whatever its previous status.
type OrderCancelledEvent struct {
	OrderID        string
	PreviousStatus Status
	OccurredAt     time.Time
}

func (OrderCancelledEvent) EventName() string { return "order.cancelled" }
func (e OrderCancelledEvent) EventKey() string { return e.OrderID }

func NewOrderCancelledEvent(o *Order, previous Status) OrderCancelledEvent {
	return OrderCancelledEvent{
		OrderID:        o.ID,
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	}
}
