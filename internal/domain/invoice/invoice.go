package invoice

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound               = errors.New("invoice: not found")
	ErrAlreadyCompleted       = errors.New("invoice: payment already completed")
	ErrInvalidStateTransition = errors.New("invoice: invalid payment state transition")
	ErrInvalidAmount          = errors.New("invoice: amount must be greater than zero")
	ErrInvalidMethod          = errors.New("invoice: unknown payment method")
)

const (
	codePrefix = "FAC-"
	dueAfter   = 30 * 24 * time.Hour
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodCard     PaymentMethod = "card"
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodQR       PaymentMethod = "qr"
)

func ParseMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodCard, MethodCash, MethodTransfer, MethodQR:
		return m, nil
	default:
		return "", ErrInvalidMethod
	}
}

// Invoice tracks one payment attempt lifecycle against an order. An order may
// accumulate several invoices but at most one of them ever completes.
type Invoice struct {
	ID              string
	Code            string
	OrderID         string
	Amount          decimal.Decimal
	PaymentStatus   PaymentStatus
	PaymentMethod   PaymentMethod
	SessionID       string
	PaymentIntentID string
	PaidAt          *time.Time
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FormatCode builds the human-readable code from random hex characters.
func FormatCode(hex string) string {
	hex = strings.ToUpper(strings.ReplaceAll(hex, "-", ""))
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return codePrefix + hex
}

func New(id, code, orderID string, amount decimal.Decimal, method PaymentMethod) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	now := time.Now().UTC()
	return &Invoice{
		ID:            id,
		Code:          code,
		OrderID:       orderID,
		Amount:        amount,
		PaymentStatus: PaymentPending,
		PaymentMethod: method,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// DueDate is thirty days after issue.
func (i *Invoice) DueDate() time.Time {
	return i.CreatedAt.Add(dueAfter)
}

func (i *Invoice) Completed() bool { return i.PaymentStatus == PaymentCompleted }

// Reopen prepares the invoice for a new checkout session at the given amount.
func (i *Invoice) Reopen(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := i.transition(stateOf(i.PaymentStatus).OnSessionStarted); err != nil {
		return err
	}
	i.Amount = amount
	i.PaymentMethod = MethodCard
	return nil
}

func (i *Invoice) AttachSession(sessionID string) {
	i.SessionID = sessionID
	i.touch()
}

// Complete records a captured payment.
func (i *Invoice) Complete(method PaymentMethod, paymentIntentID string, at time.Time) error {
	if err := i.transition(stateOf(i.PaymentStatus).OnPaymentSucceeded); err != nil {
		return err
	}
	paidAt := at.UTC()
	i.PaymentMethod = method
	if paymentIntentID != "" {
		i.PaymentIntentID = paymentIntentID
	}
	i.PaidAt = &paidAt
	return nil
}

func (i *Invoice) Fail() error {
	return i.transition(stateOf(i.PaymentStatus).OnPaymentFailed)
}

func (i *Invoice) Deactivate() {
	i.Active = false
	i.touch()
}

func (i *Invoice) Restore() {
	i.Active = true
	i.touch()
}

func (i *Invoice) transition(step func(*Invoice) (paymentState, error)) error {
	next, err := step(i)
	if err != nil {
		return err
	}
	i.PaymentStatus = next.Status()
	i.touch()
	return nil
}

func (i *Invoice) touch() {
	i.UpdatedAt = time.Now().UTC()
}

func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	clone := *i
	if i.PaidAt != nil {
		at := *i.PaidAt
		clone.PaidAt = &at
	}
	return &clone
}
