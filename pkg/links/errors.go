package links

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no link exists for a token.
	ErrNotFound = errors.New("link not found")
	// ErrExpired is returned when a partner-owned link is past its expiry.
	ErrExpired = errors.New("link expired")
	// ErrMissingField is returned when a required input is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidCount is returned when a batch size is outside [1, MaxBatchSize].
	ErrInvalidCount = errors.New("invalid link count")
	// ErrInvalidExpiry is returned when an expiry is outside [1h, MaxExpiryHours].
	ErrInvalidExpiry = errors.New("invalid link expiry")
	// ErrNotOwner is returned when a seller marks a link it does not own.
	ErrNotOwner = errors.New("link belongs to another owner")
)

// IssuanceError reports a failed batch insert. Links written before the failure are
// not retracted.
type IssuanceError struct {
	Owner     string
	Requested int
	Err       error
}

func (e *IssuanceError) Error() string {
	return fmt.Sprintf("failed to issue %d links for %s: %v", e.Requested, e.Owner, e.Err)
}

func (e *IssuanceError) Unwrap() error {
	return e.Err
}
