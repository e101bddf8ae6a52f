// Package apperr classifies failures crossing the application boundary so
// transports can map them without knowing domain packages.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindEmptyCart         Kind = "empty_cart"
	KindAlreadyPaid       Kind = "already_paid"
	KindGateway           Kind = "gateway"
	KindSignature         Kind = "signature"
	KindConflict          Kind = "conflict"
	KindPaymentIncomplete Kind = "payment_incomplete"
	KindInternal          Kind = "internal"
)

// Error carries a Kind, a client-safe message and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrEmptyCart         = &Error{Kind: KindEmptyCart}
	ErrAlreadyPaid       = &Error{Kind: KindAlreadyPaid}
	ErrGateway           = &Error{Kind: KindGateway}
	ErrSignature         = &Error{Kind: KindSignature}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrPaymentIncomplete = &Error{Kind: KindPaymentIncomplete}
)

func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NotFound(msg string, cause error) error { return New(KindNotFound, msg, cause) }
func Validation(msg string) error            { return New(KindValidation, msg, nil) }
func EmptyCart(msg string) error             { return New(KindEmptyCart, msg, nil) }
func AlreadyPaid(msg string) error           { return New(KindAlreadyPaid, msg, nil) }
func Gateway(msg string, cause error) error  { return New(KindGateway, msg, cause) }
func Signature(cause error) error            { return New(KindSignature, "invalid webhook signature", cause) }
func Conflict(msg string, cause error) error { return New(KindConflict, msg, cause) }
func PaymentIncomplete(msg string) error     { return New(KindPaymentIncomplete, msg, nil) }
func Internal(msg string, cause error) error { return New(KindInternal, msg, cause) }

// KindOf reports the kind of the outermost *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal error"
}

// Retryable reports whether the caller may retry the same request unchanged.
func Retryable(err error) bool {
	return KindOf(err) == KindGateway
}
