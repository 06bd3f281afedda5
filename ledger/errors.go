/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All engine errors in one place. Every operation returns a typed error
  that callers can classify without string matching.

ERROR CATEGORIES:
  1. Validation - malformed or out-of-range input; resubmit fixes it
  2. NotFound   - referenced worker/period/entry/settlement is absent
  3. Conflict   - state precondition violated (duplicate entry, settled
                  day, adjustment window closed, period already open)
  4. Internal   - persistence failure on an otherwise valid operation

USAGE:
  if ledger.KindOf(err) == ledger.KindConflict { ... }
  if errors.Is(err, ledger.ErrEntryExists) { ... }

SEE ALSO:
  - api/handlers.go: maps kinds to HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error into the fixed taxonomy.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

// HTTPStatus returns the numeric status class for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}

// Error is the structured error every engine operation returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets sentinel comparisons match wrapped copies carrying extra context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a settlement day is outside
	// (lastBoundary, daysInMonth].
	ErrInvalidRange = &Error{Kind: KindValidation, Message: "invalid day given for settlement"}

	// ErrFutureDay is returned when an entry or settlement targets a day
	// after today.
	ErrFutureDay = &Error{Kind: KindValidation, Message: "day is in the future"}

	// ErrSettledDay is returned when an entry targets a day at or before
	// the last settlement boundary. Settled days are immutable.
	ErrSettledDay = &Error{Kind: KindConflict, Message: "day is already settled"}

	// ErrEntryExists is returned when attendance is already recorded for
	// the day. The second writer must observe this, never overwrite.
	ErrEntryExists = &Error{Kind: KindConflict, Message: "attendance already recorded for this day"}

	// ErrEntryNotFound is returned when no daily entry exists for the day.
	ErrEntryNotFound = &Error{Kind: KindNotFound, Message: "attendance not found for this day"}

	// ErrPeriodNotFound is returned when the referenced ledger period is absent.
	ErrPeriodNotFound = &Error{Kind: KindNotFound, Message: "ledger period not found"}

	// ErrWorkerNotFound is returned when the referenced worker is absent.
	ErrWorkerNotFound = &Error{Kind: KindNotFound, Message: "worker not found"}

	// ErrContractorNotFound is returned when the tenant record is absent.
	ErrContractorNotFound = &Error{Kind: KindNotFound, Message: "contractor not found"}

	// ErrEmailTaken is returned when saving a contractor whose email
	// belongs to another account. Stores enforce the uniqueness; any
	// pre-check in a handler is advisory only.
	ErrEmailTaken = &Error{Kind: KindConflict, Message: "an account with this email already exists"}

	// ErrPeriodExists is returned when a worker already has an open period
	// for the current month.
	ErrPeriodExists = &Error{Kind: KindConflict, Message: "ledger period already open for this month"}

	// ErrWrongMonth is returned when mutating entries of a period that is
	// not the current calendar month.
	ErrWrongMonth = &Error{Kind: KindValidation, Message: "period is not the current month"}

	// ErrNoSettlement is returned when an adjustment references a month
	// with no settlement.
	ErrNoSettlement = &Error{Kind: KindValidation, Message: "no settlement done in this month"}

	// ErrAdjustmentWindowClosed is returned when adjusting a settlement on
	// any day other than the day it was performed.
	ErrAdjustmentWindowClosed = &Error{Kind: KindConflict, Message: "adjustment window closed"}

	// ErrSettlementNotFound is returned when no settlement exists at the
	// requested boundary day.
	ErrSettlementNotFound = &Error{Kind: KindNotFound, Message: "no settlement found for this day"}
)

// Validationf builds an ad-hoc validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Internalf wraps a persistence failure.
func Internalf(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from any error. Unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
