package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking. The set is closed: every fallible
// operation in the domain layer and every repository contract outcome resolves
// to exactly one of these kinds. Nothing is downgraded to a generic failure.
var (
	// ErrValidation marks rejected constructor or entity input.
	ErrValidation = errors.New("validation error")

	// ErrInsufficientDeposit marks a spend that would push a channel's
	// spent balance above its deposit.
	ErrInsufficientDeposit = errors.New("insufficient deposit")

	// ErrInvalidTransition marks a channel status transition that the
	// state machine does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAmountOverflow and ErrAmountUnderflow mark checked arithmetic
	// that would leave the representable range. Amounts are never clamped.
	ErrAmountOverflow  = errors.New("amount overflow")
	ErrAmountUnderflow = errors.New("amount underflow")

	// ErrMalformedData marks a wire or storage representation that failed
	// to decode. Decoding never coerces invalid input into validity.
	ErrMalformedData = errors.New("malformed data")

	// Repository contract outcomes.
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrConflict         = errors.New("conflict")
	ErrSequenceConflict = errors.New("sequence conflict")
	ErrChannelClosed    = errors.New("channel closed")

	// Backend failure kinds a repository implementation propagates when it
	// cannot complete an operation. Retry policy belongs to the caller.
	ErrUnavailable = errors.New("unavailable")
	ErrTimeout     = errors.New("timeout")
)

// Shared validation messages used by entity sub-packages.
const (
	MsgRequired = "is required"
)

// ValidationError provides programmatic access to field-level validation
// failures. Use errors.Is(err, ErrValidation) for simple checks, or
// errors.As(err, &verr) to access verr.Fields for per-field details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// MalformedDataError carries the reason a wire representation failed to
// decode. It wraps ErrMalformedData for errors.Is checks. The detail names
// the offending field and may quote a truncated excerpt of the wire value
// for diagnostics.
type MalformedDataError struct {
	Detail string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedData.Error(), e.Detail)
}

func (e *MalformedDataError) Unwrap() error {
	return ErrMalformedData
}

// malformed is a shorthand constructor used by the codec paths.
func malformed(format string, args ...any) error {
	return &MalformedDataError{Detail: fmt.Sprintf(format, args...)}
}
