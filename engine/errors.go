/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match sentinels with errors.Is() and pull detail out of the
  structured types with errors.As().

ERROR CATEGORIES:
  1. Input errors - malformed liability snapshots, unknown selectors;
     surfaced before any simulation begins, never retried
  2. Schedule errors - non-amortizing runs; the partial schedule is
     still returned alongside the error

All errors here are recoverable at the call boundary: none should crash
the host process. A capped schedule is NOT an error - it is reported via
PayoffSchedule.Termination so callers must inspect it explicitly.
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidLiability is returned when a liability snapshot carries a
	// negative balance, APR, or minimum payment, or a duplicate id.
	ErrInvalidLiability = errors.New("invalid liability")

	// ErrNonAmortizing is returned when every active liability loses
	// ground under current parameters and the run cannot terminate.
	ErrNonAmortizing = errors.New("schedule is non-amortizing")

	// ErrUnknownStrategy is returned for a strategy selector that is
	// neither snowball nor avalanche.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrUnknownPaymentMode is returned for a payment-mode selector that
	// is not aggressive, balanced, or lazy.
	ErrUnknownPaymentMode = errors.New("unknown payment mode")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidLiabilityError names the offending liability and field.
type InvalidLiabilityError struct {
	LiabilityID LiabilityID
	Field       string // "balance", "apr", "minimum_payment", "id"
	Value       decimal.Decimal
}

func (e *InvalidLiabilityError) Error() string {
	return fmt.Sprintf("invalid liability %q: field %s has value %s",
		e.LiabilityID, e.Field, e.Value)
}

func (e *InvalidLiabilityError) Unwrap() error {
	return ErrInvalidLiability
}

// NonAmortizingScheduleError reports which liabilities were stuck and in
// which period, so the caller can suggest raising minimums or surplus.
type NonAmortizingScheduleError struct {
	PeriodIndex  int
	LiabilityIDs []LiabilityID
}

func (e *NonAmortizingScheduleError) Error() string {
	return fmt.Sprintf("non-amortizing at period %d: %d liabilit(y/ies) cannot reduce principal",
		e.PeriodIndex, len(e.LiabilityIDs))
}

func (e *NonAmortizingScheduleError) Unwrap() error {
	return ErrNonAmortizing
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidLiability) ||
		errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrUnknownPaymentMode)
}
