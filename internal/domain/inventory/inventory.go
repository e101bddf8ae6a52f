package inventory

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("inventory: product not found")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// InsufficientError is returned by Deduct when the stock cannot cover the
// request. It matches ErrInsufficientStock.
type InsufficientError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("inventory: product %s has %d, %d requested", e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientError) Is(target error) bool { return target == ErrInsufficientStock }

// Stock is the on-hand quantity of one product at one location.
type Stock struct {
	ProductID string
	Quantity  int
	Location  string
	Active    bool
	UpdatedAt time.Time
}

func NewStock(productID string, quantity int, location string) (*Stock, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	return &Stock{ProductID: productID, Quantity: quantity, Location: location, Active: true, UpdatedAt: now()}, nil
}

// Deduct removes quantity or nothing at all; Quantity never drops below zero.
func (s *Stock) Deduct(quantity int) error {
	switch {
	case quantity <= 0:
		return ErrInvalidQuantity
	case quantity > s.Quantity:
		return &InsufficientError{ProductID: s.ProductID, Requested: quantity, Available: s.Quantity}
	}
	s.Quantity -= quantity
	s.UpdatedAt = now()
	return nil
}

func (s *Stock) Clone() *Stock {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func now() time.Time { return time.Now().UTC() }
