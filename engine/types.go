/*
Package engine provides the debt payoff scheduling engine.

PURPOSE:
  This package contains the pure, deterministic core that turns a snapshot
  of interest-bearing liabilities into a month-by-month payment plan under
  a chosen prioritization strategy, and derives payoff-date and
  total-interest projections from that plan.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A currency amount backed by decimal.Decimal
  - LiabilityRecord: Immutable snapshot of one debt at schedule start
  - PaymentAllocation: Per-liability, per-period accounting record
  - SchedulePeriod / PayoffSchedule: The assembled plan

DESIGN PRINCIPLES:
  1. Immutability: Each period produces NEW balance values; liability
     snapshots are never edited in place
  2. Precision: Uses decimal.Decimal to avoid floating-point money errors;
     rounding (half-up to cents) happens only at interest accrual
  3. Purity: No I/O, no clocks, no shared state - two runs with identical
     inputs produce identical schedules

USAGE:
  schedule, err := engine.BuildSchedule(engine.ScheduleInput{
      Liabilities: liabilities,
      Strategy:    engine.StrategyAvalanche,
      PaymentMode: engine.ModeAggressive,
      Surplus:     engine.NewMoney(100),
  })

SEE ALSO:
  - strategy.go: Snowball/avalanche ordering
  - budget.go: Extra budget policy per payment mode
  - simulator.go: Single-period amortization step
  - builder.go: Drives the simulator to termination
  - projection.go: Payoff date and charting series
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount (cents precision)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func ZeroMoney() Money {
	return Money{Value: decimal.Zero}
}

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney()
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money          { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money          { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) Neg() Money                 { return Money{Value: m.Value.Neg()} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) Equal(o Money) bool         { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool   { return m.Value.GreaterThan(o.Value) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.Value.GreaterThanOrEqual(o.Value) }
func (m Money) LessThan(o Money) bool      { return m.Value.LessThan(o.Value) }
func (m Money) Min(o Money) Money          { if m.LessThan(o) { return m }; return o }

// RoundCents applies the engine's single rounding policy: half-up to cents.
// Only interest accrual produces sub-cent values, so this is the only place
// rounding matters.
func (m Money) RoundCents() Money {
	return Money{Value: m.Value.Round(2)}
}

// Float64 returns a float approximation for display/DTO boundaries only.
func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

func (m Money) String() string {
	return m.Value.StringFixed(2)
}

// MarshalJSON serializes Money as a plain decimal string ("41.65").
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Value.StringFixed(2) + `"`), nil
}

// UnmarshalJSON accepts both quoted decimal strings and bare numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Value = d
	return nil
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LiabilityID string

// =============================================================================
// LIABILITY RECORD - Immutable snapshot of one debt at schedule start
// =============================================================================

// LiabilityRecord is the caller-provided snapshot the engine works from.
// The engine never mutates a record: each simulated period produces records
// with NEW balance values. A record belongs to exactly one schedule run.
type LiabilityRecord struct {
	ID   LiabilityID `json:"id"`
	Name string      `json:"name"`

	// Outstanding balance at period start. Non-negative.
	Balance Money `json:"balance"`

	// Annual percentage rate as a percentage (19.99 means 19.99%). Non-negative.
	APR decimal.Decimal `json:"apr"`

	// Contractual minimum payment per period. Non-negative.
	MinimumPayment Money `json:"minimum_payment"`
}

// withBalance returns a copy of the record carrying a new balance.
func (l LiabilityRecord) withBalance(b Money) LiabilityRecord {
	l.Balance = b
	return l
}

// MonthlyInterest computes one period's interest accrual on the record's
// balance: round_half_up(balance * apr / 100 / 12, cents).
func (l LiabilityRecord) MonthlyInterest() Money {
	return l.Balance.Mul(l.APR.Div(decimal.NewFromInt(1200))).RoundCents()
}

// =============================================================================
// PAYMENT ALLOCATION - One liability's accounting for one period
// =============================================================================

// PaymentAllocation records what happened to a single liability during a
// single period. Immutable once created; owned by its SchedulePeriod.
//
// PrincipalPaid is defined as (total paid this period - interest accrued),
// so ResultingBalance == previous balance - PrincipalPaid always holds.
// In a period where payments do not cover interest, PrincipalPaid is
// negative: the balance grew by the shortfall.
type PaymentAllocation struct {
	LiabilityID      LiabilityID `json:"liability_id"`
	InterestAccrued  Money       `json:"interest_accrued"`
	PrincipalPaid    Money       `json:"principal_paid"`
	ResultingBalance Money       `json:"resulting_balance"`

	// Retired is true when this period drove the balance to zero. The
	// liability never reappears in a later period's allocations.
	Retired bool `json:"retired,omitempty"`
}

// =============================================================================
// SCHEDULE PERIOD - One billing period of the plan
// =============================================================================

// SchedulePeriod holds the allocations of every liability that was active
// at period start, including ones retired during the period.
type SchedulePeriod struct {
	// 1-based period count.
	Index int `json:"index"`

	Allocations []PaymentAllocation `json:"allocations"`

	// Extra budget actually applied against balances this period. May be
	// less than the available extra budget when every remaining balance
	// was extinguished before the budget ran out.
	ExtraBudgetApplied Money `json:"extra_budget_applied"`

	// Cumulative freed minimums (retired liabilities' minimum payments)
	// redirected into the next period's extra budget.
	FreedMinimumEnteringNextPeriod Money `json:"freed_minimum_entering_next_period"`
}

// =============================================================================
// PAYOFF SCHEDULE - The assembled plan
// =============================================================================

type TerminationReason string

const (
	// TerminationAllPaid: the active set emptied; the plan is complete.
	TerminationAllPaid TerminationReason = "all_paid"

	// TerminationCapReached: the safety cap was hit with liabilities
	// remaining; the schedule is partial and must not be treated as a
	// completed payoff plan.
	TerminationCapReached TerminationReason = "cap_reached"

	// TerminationNonAmortizing: every active liability was losing ground
	// with zero extra budget; continuing would loop forever.
	TerminationNonAmortizing TerminationReason = "non_amortizing"
)

// PayoffSchedule is the full simulated plan. Periods are append-only and
// ordered by index.
type PayoffSchedule struct {
	Strategy    Strategy          `json:"strategy"`
	PaymentMode PaymentMode       `json:"payment_mode"`
	Periods     []SchedulePeriod  `json:"periods"`
	Termination TerminationReason `json:"termination"`
}

// Complete reports whether every liability was paid off.
func (s *PayoffSchedule) Complete() bool {
	return s.Termination == TerminationAllPaid
}

// Partial reports whether the schedule stopped before paying everything off.
// Callers must check this before presenting a payoff date.
func (s *PayoffSchedule) Partial() bool {
	return s.Termination != TerminationAllPaid
}
