/*
builder.go - Drives the simulator to termination

PURPOSE:
  ScheduleBuilder is a small state machine:

      RUNNING -> COMPLETE   active set emptied        (all_paid)
      RUNNING -> CAPPED     safety cap reached        (cap_reached)
      RUNNING -> STUCK      non-amortizing condition  (non_amortizing)

  Transitions are driven purely by simulator output - no wall clock, no
  I/O. The loop is CPU-bound, synchronous, and bounded by the cap
  (default 600 periods / 50 years), so the worst case is small.

TERMINATION CONTRACT:
  COMPLETE: schedule returned, nil error.
  CAPPED:   partial schedule returned, nil error; the schedule is marked
            via Termination == cap_reached and Partial() so callers must
            not silently treat it as a finished payoff plan.
  STUCK:    schedule up to and including the stuck period is returned
            ALONGSIDE a *NonAmortizingScheduleError naming the stuck
            liabilities and period.

ROLLOVER TIMING:
  A minimum payment freed by a retirement joins the extra budget from the
  NEXT period onward, never within the period that freed it.

SEE ALSO:
  - simulator.go: One-period step
  - projection.go: Reduces the finished schedule to display metrics
*/
package engine

// DefaultPeriodCap bounds a schedule at 600 periods (50 years of months).
const DefaultPeriodCap = 600

// =============================================================================
// BUILDER STATE MACHINE
// =============================================================================

type buildState int

const (
	stateRunning buildState = iota
	stateComplete
	stateCapped
	stateStuck
)

func (s buildState) termination() TerminationReason {
	switch s {
	case stateComplete:
		return TerminationAllPaid
	case stateCapped:
		return TerminationCapReached
	default:
		return TerminationNonAmortizing
	}
}

// =============================================================================
// SCHEDULE INPUT
// =============================================================================

// ScheduleInput is everything a schedule run needs. The engine reads it
// once and owns all derived state for the duration of the run.
type ScheduleInput struct {
	Liabilities []LiabilityRecord
	Strategy    Strategy
	PaymentMode PaymentMode

	// Monthly amount available beyond minimum payments.
	Surplus Money

	// PeriodCap overrides DefaultPeriodCap when positive.
	PeriodCap int
}

func (in ScheduleInput) cap() int {
	if in.PeriodCap > 0 {
		return in.PeriodCap
	}
	return DefaultPeriodCap
}

// validate rejects malformed input before any simulation begins.
func (in ScheduleInput) validate() error {
	if !in.Strategy.Valid() {
		return ErrUnknownStrategy
	}
	if !in.PaymentMode.Valid() {
		return ErrUnknownPaymentMode
	}

	seen := make(map[LiabilityID]bool, len(in.Liabilities))
	for _, l := range in.Liabilities {
		if seen[l.ID] {
			return &InvalidLiabilityError{LiabilityID: l.ID, Field: "id"}
		}
		seen[l.ID] = true

		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects a record with any negative field.
func (l LiabilityRecord) Validate() error {
	if l.Balance.IsNegative() {
		return &InvalidLiabilityError{LiabilityID: l.ID, Field: "balance", Value: l.Balance.Value}
	}
	if l.APR.IsNegative() {
		return &InvalidLiabilityError{LiabilityID: l.ID, Field: "apr", Value: l.APR}
	}
	if l.MinimumPayment.IsNegative() {
		return &InvalidLiabilityError{LiabilityID: l.ID, Field: "minimum_payment", Value: l.MinimumPayment.Value}
	}
	return nil
}

// =============================================================================
// BUILD
// =============================================================================

// BuildSchedule runs the full simulation for one input snapshot.
//
// A liability with a zero balance is accepted but excluded from the
// active set (already paid off). On a non-amortizing run the partial
// schedule is returned together with the error.
func BuildSchedule(input ScheduleInput) (*PayoffSchedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Active set: fresh copies, zero balances excluded up front.
	var active []LiabilityRecord
	for _, l := range input.Liabilities {
		if l.Balance.IsPositive() {
			active = append(active, l)
		}
	}

	schedule := &PayoffSchedule{
		Strategy:    input.Strategy,
		PaymentMode: input.PaymentMode,
		Termination: TerminationAllPaid,
	}

	state := stateRunning
	freed := ZeroMoney() // cumulative freed minimums, applied next period onward
	var stuck *NonAmortizingScheduleError

	for index := 1; state == stateRunning; index++ {
		if len(active) == 0 {
			state = stateComplete
			break
		}
		if index > input.cap() {
			state = stateCapped
			break
		}

		extra := ExtraBudget(input.PaymentMode, input.Surplus, freed)
		outcome := simulatePeriod(input.Strategy, active, extra)

		freed = freed.Add(outcome.NewlyFreedMinimum)
		schedule.Periods = append(schedule.Periods, SchedulePeriod{
			Index:                          index,
			Allocations:                    outcome.Allocations,
			ExtraBudgetApplied:             outcome.ExtraApplied,
			FreedMinimumEnteringNextPeriod: freed,
		})
		active = outcome.Remaining

		if outcome.AllStuck {
			state = stateStuck
			stuck = &NonAmortizingScheduleError{
				PeriodIndex:  index,
				LiabilityIDs: outcome.StuckIDs,
			}
		}
	}

	schedule.Termination = state.termination()
	if stuck != nil {
		return schedule, stuck
	}
	return schedule, nil
}
