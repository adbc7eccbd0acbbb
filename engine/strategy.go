/*
strategy.go - Prioritization strategies and liability ordering

PURPOSE:
  Decides which active liability receives extra payment priority each
  period. A Strategy is a tagged value consumed by one ordering function
  with a switch over the tag - there is no Strategy class hierarchy, which
  keeps the comparator pure and trivially unit-testable.

STRATEGIES:
  snowball:  Smallest current balance first. Quick wins; each retirement
             frees a minimum payment for the pile.
  avalanche: Highest APR first. Mathematically optimal total interest.

ORDERING IS RECOMPUTED EVERY PERIOD:
  A liability's relative rank can change as balances shrink unevenly, so
  the order is not fixed at schedule start. Ties break by ascending id so
  runs are reproducible.

SEE ALSO:
  - simulator.go: Applies the extra-budget cascade in rank order
*/
package engine

import "sort"

// =============================================================================
// STRATEGY - Tagged variant, not a type hierarchy
// =============================================================================

type Strategy string

const (
	StrategySnowball  Strategy = "snowball"  // smallest balance first
	StrategyAvalanche Strategy = "avalanche" // highest APR first
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategySnowball, StrategyAvalanche:
		return true
	default:
		return false
	}
}

// Less is the strategy's comparator over liability snapshots.
// Ties always break by ascending id, so the resulting order is total
// and deterministic.
func (s Strategy) Less(a, b LiabilityRecord) bool {
	switch s {
	case StrategySnowball:
		if !a.Balance.Equal(b.Balance) {
			return a.Balance.LessThan(b.Balance)
		}
	case StrategyAvalanche:
		if !a.APR.Equal(b.APR) {
			return a.APR.GreaterThan(b.APR)
		}
	}
	return a.ID < b.ID
}

// Rank returns the active set in extra-payment priority order.
// The input slice is not modified.
func (s Strategy) Rank(active []LiabilityRecord) []LiabilityRecord {
	ranked := make([]LiabilityRecord, len(active))
	copy(ranked, active)
	sort.Slice(ranked, func(i, j int) bool {
		return s.Less(ranked[i], ranked[j])
	})
	return ranked
}
