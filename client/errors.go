package client

import (
	"errors"

	"food-ordering-api/models"
	"food-ordering-api/statemachine"
)

var (
	ErrNoSession = errors.New("not logged in")
	ErrEmptyCart = errors.New("cart is empty")
	ErrForbidden = errors.New("not allowed for this role")

	// ErrNotCancellable is returned before any request is made for an order
	// that has left Pending.
	ErrNotCancellable = statemachine.ErrNotCancellable
)

// APIError is a non-2xx answer from the server. Message is the server's
// message as sent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// ValidationError lists the fields that failed local checks. No request was
// sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return models.SummarizeFieldErrors(e.Fields)
}
