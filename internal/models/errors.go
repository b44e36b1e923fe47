package models

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound     = errors.New("models: booking not found")
	ErrEscrowNotFound      = errors.New("models: escrow payment not found")
	ErrDisputeNotFound     = errors.New("models: dispute not found")
	ErrApplicationNotFound = errors.New("models: job application not found")
	ErrJobNotFound         = errors.New("models: job not found")
	ErrUserNotFound        = errors.New("models: user not found")

	ErrValidation   = errors.New("models: invalid input")
	ErrUnauthorized = errors.New("models: unauthorized")

	// Conflict family: a legitimate precondition lost the race or was
	// already satisfied by an earlier request.
	ErrDisputeExists    = errors.New("models: an open dispute already exists for this booking")
	ErrAlreadyResponded = errors.New("models: application already has a response")
	ErrEscrowExists     = errors.New("models: escrow payment already exists for this booking")
	ErrAlreadyReviewed  = errors.New("models: booking already has a review")
	ErrWindowExpired    = errors.New("models: acceptance window has expired")
	ErrNotSelected      = errors.New("models: application has not been selected")

	// ErrCannotCancel is returned when a client tries to cancel a booking
	// the worker has already committed to.
	ErrCannotCancel = errors.New("models: cannot cancel an accepted/in-progress booking")

	// Gateway failures. A charge failure aborts the hold; a transfer
	// failure leaves the escrow record untouched so the caller may retry.
	ErrPaymentFailed  = errors.New("models: payment gateway charge failed")
	ErrTransferFailed = errors.New("models: payment gateway transfer failed")
)

// TransitionError reports a state machine violation. It carries the entity
// name and the attempted edge so callers can log exactly what was refused.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: illegal transition %s -> %s", e.Entity, e.From, e.To)
}

// NewTransitionError builds a TransitionError for the given entity edge.
func NewTransitionError(entity, from, to string) *TransitionError {
	return &TransitionError{Entity: entity, From: from, To: to}
}
