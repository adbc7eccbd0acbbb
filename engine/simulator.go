/*
simulator.go - Single-period amortization step

PURPOSE:
  Advances every active liability by exactly one billing period:

  1. Accrue interest on each balance (half-up to cents), BEFORE any
     payment - standard simple-interest revolving-debt accounting.
  2. Apply each liability's own minimum payment, interest first then
     principal. A liability whose post-accrual balance is below its
     minimum pays off using only part of the minimum; the unused
     remainder is NOT redirected within the period (no double counting).
  3. Cascade the period's extra budget down the strategy ranking: the
     top-ranked active liability absorbs it, any remainder spills to the
     next rank, and so on within the same period.
  4. Retire liabilities whose balance reached exactly zero; their
     minimum payments are freed for the NEXT period onward.
  5. Emit one PaymentAllocation per liability active at period start,
     including ones retired this period.

NON-AMORTIZATION GUARD:
  A liability that receives no extra budget and whose minimum payment
  does not exceed its accrued interest cannot reduce principal. When
  EVERY active liability is in that state and the extra budget is zero,
  the period is reported as all-stuck so the builder can terminate the
  run instead of looping to the cap while silently losing ground.

SEE ALSO:
  - builder.go: Drives this step period by period
*/
package engine

// periodOutcome is the simulator's report for one period.
type periodOutcome struct {
	// One allocation per liability active at period start, input order.
	Allocations []PaymentAllocation

	// Fresh snapshots of liabilities still active after the period,
	// preserving input order. Retired liabilities are dropped here and
	// never reappear.
	Remaining []LiabilityRecord

	// Sum of the minimum payments freed by this period's retirements.
	NewlyFreedMinimum Money

	// Extra budget actually consumed against balances.
	ExtraApplied Money

	// Liabilities flagged by the non-amortization guard.
	StuckIDs []LiabilityID

	// True when every active liability is stuck and the extra budget
	// was zero; the run cannot make progress.
	AllStuck bool
}

// simulatePeriod advances the active set by one period. The input records
// are never mutated; updated balances appear only on the returned copies.
func simulatePeriod(strategy Strategy, active []LiabilityRecord, extraBudget Money) periodOutcome {
	n := len(active)
	interest := make([]Money, n)
	paid := make([]Money, n)
	balance := make([]Money, n)

	// Steps 1-2: accrual, then each liability's own minimum.
	for i, rec := range active {
		interest[i] = rec.MonthlyInterest()
		afterAccrual := rec.Balance.Add(interest[i])

		payment := rec.MinimumPayment.Min(afterAccrual)
		paid[i] = payment
		balance[i] = afterAccrual.Sub(payment)
	}

	// Step 3: cascade the extra budget in strategy rank order, ranked on
	// the balances as they stand after minimums. The ranking is computed
	// once per period; within-period cascade follows it.
	current := make([]LiabilityRecord, n)
	indexByID := make(map[LiabilityID]int, n)
	for i, rec := range active {
		current[i] = rec.withBalance(balance[i])
		indexByID[rec.ID] = i
	}

	receivedExtra := make([]bool, n)
	remainingExtra := extraBudget
	for _, ranked := range strategy.Rank(current) {
		if !remainingExtra.IsPositive() {
			break
		}
		i := indexByID[ranked.ID]
		if !balance[i].IsPositive() {
			continue
		}
		applied := remainingExtra.Min(balance[i])
		balance[i] = balance[i].Sub(applied)
		paid[i] = paid[i].Add(applied)
		remainingExtra = remainingExtra.Sub(applied)
		receivedExtra[i] = true
	}

	// Steps 4-5: retirement, allocations, and the stuck flags.
	out := periodOutcome{
		Allocations:       make([]PaymentAllocation, 0, n),
		NewlyFreedMinimum: ZeroMoney(),
		ExtraApplied:      extraBudget.Sub(remainingExtra),
	}

	for i, rec := range active {
		retired := balance[i].IsZero()
		out.Allocations = append(out.Allocations, PaymentAllocation{
			LiabilityID:      rec.ID,
			InterestAccrued:  interest[i],
			PrincipalPaid:    paid[i].Sub(interest[i]),
			ResultingBalance: balance[i],
			Retired:          retired,
		})

		if retired {
			out.NewlyFreedMinimum = out.NewlyFreedMinimum.Add(rec.MinimumPayment)
			continue
		}

		out.Remaining = append(out.Remaining, rec.withBalance(balance[i]))
		if !receivedExtra[i] && !rec.MinimumPayment.GreaterThan(interest[i]) {
			out.StuckIDs = append(out.StuckIDs, rec.ID)
		}
	}

	out.AllStuck = extraBudget.IsZero() && n > 0 && len(out.StuckIDs) == n
	return out
}
