/*
budget.go - Extra budget policy per payment mode

PURPOSE:
  Converts the caller's payment-mode setting and discretionary surplus
  into the extra dollars available in a given period, on top of the
  contractual minimum payments.

KEY RULE:
  extra = freed_minimum + surplus_factor(mode) * surplus

  The freed minimum - cash already committed to debt service before a
  liability retired - is ALWAYS fully redirected, regardless of mode.
  Only the discretionary surplus is scaled by the mode.

SEE ALSO:
  - builder.go: Accumulates freed minimums across periods
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// PAYMENT MODE
// =============================================================================

type PaymentMode string

const (
	ModeAggressive PaymentMode = "aggressive" // full surplus every period
	ModeBalanced   PaymentMode = "balanced"   // half the surplus
	ModeLazy       PaymentMode = "lazy"       // minimums (plus freed) only
)

// Valid reports whether m names a known payment mode.
func (m PaymentMode) Valid() bool {
	switch m {
	case ModeAggressive, ModeBalanced, ModeLazy:
		return true
	default:
		return false
	}
}

// SurplusFactor returns how much of the discretionary surplus the mode
// commits each period.
func (m PaymentMode) SurplusFactor() decimal.Decimal {
	switch m {
	case ModeAggressive:
		return decimal.NewFromInt(1)
	case ModeBalanced:
		return decimal.NewFromFloat(0.5)
	default: // ModeLazy
		return decimal.Zero
	}
}

// ExtraBudget computes the extra dollars available for one period.
// freedMinimum is the cumulative minimum-payment total of liabilities
// retired in prior periods; rollover of committed debt-service cash is
// not discretionary, so it bypasses the surplus factor.
func ExtraBudget(mode PaymentMode, surplus, freedMinimum Money) Money {
	return freedMinimum.Add(surplus.Mul(mode.SurplusFactor()).RoundCents())
}
