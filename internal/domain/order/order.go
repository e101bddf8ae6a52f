package order

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound               = errors.New("order: not found")
	ErrConflict               = errors.New("order: cart already converted")
	ErrShippingAddressMissing = errors.New("order: shipping address is required")
	ErrContactPhoneMissing    = errors.New("order: contact phone is required")
	ErrContactPhoneTooLong    = errors.New("order: contact phone exceeds 20 characters")
	ErrInvalidStatus          = errors.New("order: invalid status")
	ErrInvalidTotal           = errors.New("order: total must not be negative")
)

const maxPhoneLength = 20

// Order is the snapshot of a purchase taken from a cart. Total is fixed at
// creation and never recomputed.
type Order struct {
	ID              string
	UserID          string
	CartID          string
	Total           decimal.Decimal
	Status          Status
	ShippingAddress string
	ContactPhone    string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func New(id, userID, cartID string, total decimal.Decimal, shippingAddress, contactPhone, notes string) (*Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	contactPhone = strings.TrimSpace(contactPhone)
	if shippingAddress == "" {
		return nil, ErrShippingAddressMissing
	}
	if contactPhone == "" {
		return nil, ErrContactPhoneMissing
	}
	if utf8.RuneCountInString(contactPhone) > maxPhoneLength {
		return nil, ErrContactPhoneTooLong
	}
	if total.IsNegative() {
		return nil, ErrInvalidTotal
	}

	now := time.Now().UTC()
	return &Order{
		ID:              id,
		UserID:          userID,
		CartID:          cartID,
		Total:           total,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		ContactPhone:    contactPhone,
		Notes:           strings.TrimSpace(notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Confirm marks the order paid.
func (o *Order) Confirm() {
	o.setStatus(StatusConfirmed)
}

// Cancel is unconditional, even for shipped or delivered orders.
func (o *Order) Cancel() {
	o.setStatus(StatusCancelled)
}

// SetStatus moves the order to any known status.
func (o *Order) SetStatus(s Status) error {
	if !s.Valid() {
		return ErrInvalidStatus
	}
	o.setStatus(s)
	return nil
}

func (o *Order) setStatus(s Status) {
	o.Status = s
	o.touch()
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
