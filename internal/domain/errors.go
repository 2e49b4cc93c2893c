package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a client vanished between selection and commit.
	ErrNotFound = errors.New("client not found")

	// ErrPartnerNotFound is returned by partner lookups of an unknown id.
	ErrPartnerNotFound = errors.New("partner not found")

	// ErrInsufficientFunds is returned when the origin balance does not cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// ValidationError is a field-scoped, recoverable input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is an ordered list of field errors returned as one error.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Field returns the first message recorded for field, or "".
func (e ValidationErrors) Field(field string) string {
	for _, v := range e {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// NetworkError wraps a transport or remote failure. Its message is the generic
// user-facing text; the cause is kept for logging only.
type NetworkError struct {
	Op      string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError builds a NetworkError for op with a generic message.
func NewNetworkError(op, message string, err error) *NetworkError {
	return &NetworkError{Op: op, Message: message, Err: err}
}

// PartialTransferError reports a transfer that debited the origin but could not
// credit the destination nor reverse the debit.
type PartialTransferError struct {
	FromID string
	ToID   string
	Err    error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("transfer from %s to %s partially applied: origin debited, destination not credited", e.FromID, e.ToID)
}

func (e *PartialTransferError) Unwrap() error {
	return e.Err
}
