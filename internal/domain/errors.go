package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindInvalidWindow          ErrorKind = "invalid_window"
	ErrorKindUnitUnavailable        ErrorKind = "unit_unavailable"
	ErrorKindReservationNotFound    ErrorKind = "reservation_not_found"
	ErrorKindIllegalStateTransition ErrorKind = "illegal_state_transition"
	ErrorKindPaymentFailed          ErrorKind = "payment_failed"
	ErrorKindTaxServiceFailed       ErrorKind = "tax_service_failed"
	ErrorKindPreconditionMissing    ErrorKind = "precondition_missing"
	ErrorKindNotFound               ErrorKind = "not_found"
	ErrorKindInvalidArgument        ErrorKind = "invalid_argument"
)

// Error carries a stable kind for the API boundary. Reason holds a gateway-supplied
// code such as card_declined when there is one.
type Error struct {
	Kind    ErrorKind
	Message string
	Reason  string
	Err     error
}

func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func WrapError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrUnitUnavailable) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in the chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

var (
	ErrInvalidWindow          = NewError(ErrorKindInvalidWindow, "invalid window")
	ErrUnitUnavailable        = NewError(ErrorKindUnitUnavailable, "unit unavailable")
	ErrReservationNotFound    = NewError(ErrorKindReservationNotFound, "reservation not found")
	ErrIllegalStateTransition = NewError(ErrorKindIllegalStateTransition, "illegal state transition")
	ErrPaymentFailed          = NewError(ErrorKindPaymentFailed, "payment failed")
	ErrTaxServiceFailed       = NewError(ErrorKindTaxServiceFailed, "tax service failed")
	ErrPreconditionMissing    = NewError(ErrorKindPreconditionMissing, "precondition missing")
	ErrNotFound               = NewError(ErrorKindNotFound, "not found")
	ErrInvalidArgument        = NewError(ErrorKindInvalidArgument, "invalid argument")

	ErrAlreadyCharged = NewError(ErrorKindIllegalStateTransition, "reservation already charged")
)
