package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature = errors.New("payment: webhook signature verification failed")
	ErrSessionNotFound  = errors.New("payment: checkout session not found")
)

// SessionStatus is the gateway's view of a hosted checkout session.
type SessionStatus string

const (
	SessionPaid    SessionStatus = "paid"
	SessionOpen    SessionStatus = "open"
	SessionExpired SessionStatus = "expired"
)

type LineItem struct {
	Name        string
	Description string
	UnitAmount  decimal.Decimal
	Quantity    int
}

// Metadata is echoed back by the gateway on every session lookup and webhook.
type Metadata struct {
	InvoiceID string
	OrderID   string
}

type SessionRequest struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      Metadata
}

type Session struct {
	ID  string
	URL string
}

type SessionDetails struct {
	ID              string
	URL             string
	Status          SessionStatus
	PaymentIntentID string
	Metadata        Metadata
}

type EventType string

const (
	EventCheckoutCompleted     EventType = "checkout.session.completed"
	EventCheckoutExpired       EventType = "checkout.session.expired"
	EventAsyncPaymentSucceeded EventType = "checkout.session.async_payment_succeeded"
	EventAsyncPaymentFailed    EventType = "checkout.session.async_payment_failed"
)

// Event is a verified webhook notification. Session is nil for event types
// that do not carry a checkout session.
type Event struct {
	ID      string
	Type    EventType
	Session *SessionDetails
}

// Gateway is the hosted-checkout payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*SessionDetails, error)
	// VerifyWebhook authenticates payload against signature and decodes it.
	// Returns ErrInvalidSignature when authentication fails.
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
