/*
projection.go - Display metrics derived from a schedule

PURPOSE:
  Reduces a completed or partial PayoffSchedule to the numbers a summary
  panel and a balance-over-time chart need:

  - PayoffPeriodIndex: first period in which the active set became empty
    (nil unless the schedule completed)
  - PayoffDate: anchor date + that many months (nil likewise)
  - TotalInterestPaid: interest summed across every allocation
  - PerLiabilityTimeseries: each liability's resulting balance per
    period, zero-padded after retirement so series share one x-axis

  The summary is derived, read-only, and recomputed on demand; the
  engine never persists it.
*/
package engine

import "time"

// ProjectionSummary is the chart/summary-panel view of a schedule.
type ProjectionSummary struct {
	// Nil unless the schedule terminated all_paid. Zero (non-nil) for a
	// schedule whose input held no active liabilities.
	PayoffPeriodIndex *int `json:"payoff_period_index"`

	// Anchor + PayoffPeriodIndex months. Nil when the index is nil.
	PayoffDate *time.Time `json:"payoff_date"`

	TotalInterestPaid Money `json:"total_interest_paid"`

	// Ordered resulting balances per liability, one entry per period,
	// zeros after retirement.
	PerLiabilityTimeseries map[LiabilityID][]Money `json:"per_liability_timeseries"`
}

// Summarize derives the projection from a schedule. The anchor is the
// date the plan starts; period n completes n months after it.
func Summarize(s *PayoffSchedule, anchor time.Time) ProjectionSummary {
	summary := ProjectionSummary{
		TotalInterestPaid:      ZeroMoney(),
		PerLiabilityTimeseries: make(map[LiabilityID][]Money),
	}

	for _, period := range s.Periods {
		for _, alloc := range period.Allocations {
			summary.TotalInterestPaid = summary.TotalInterestPaid.Add(alloc.InterestAccrued)
			summary.PerLiabilityTimeseries[alloc.LiabilityID] =
				append(summary.PerLiabilityTimeseries[alloc.LiabilityID], alloc.ResultingBalance)
		}
	}

	// Retired liabilities stop appearing in allocations; pad their series
	// with zeros to the full schedule length.
	for id, series := range summary.PerLiabilityTimeseries {
		for len(series) < len(s.Periods) {
			series = append(series, ZeroMoney())
		}
		summary.PerLiabilityTimeseries[id] = series
	}

	if s.Complete() {
		index := len(s.Periods)
		date := anchor.AddDate(0, index, 0)
		summary.PayoffPeriodIndex = &index
		summary.PayoffDate = &date
	}

	return summary
}
