/*
service.go - Plan computation service

PURPOSE:
  Orchestrates the pure scheduling engine with the collaborators around
  it: the result cache (keyed by request fingerprint), the SQLite store
  for saved plan runs, and the strategy comparison used by the API.

KEY CONCEPTS:
  - Compute: one strategy, one mode. A non-amortizing outcome is a
    legitimate result here, not a failure - the partial schedule and the
    stuck detail are surfaced on the Result so callers can explain it.
  - Compare: runs snowball and avalanche over the same input and reports
    the interest and months separating them. Never persisted or cached.

SEE ALSO:
  - engine/builder.go: the schedule construction this service drives
  - cache/cache.go: the Get/Set contract the result cache satisfies
*/
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/warp/payoff-engine/cache"
	"github.com/warp/payoff-engine/engine"
	"github.com/warp/payoff-engine/store/sqlite"
)

// Request is a fully specified plan computation.
type Request struct {
	Liabilities []engine.LiabilityRecord
	Strategy    engine.Strategy
	PaymentMode engine.PaymentMode
	Surplus     engine.Money
	StartDate   time.Time
	PeriodCap   int
}

// Result is the outcome of a single plan computation. Stuck is non-nil
// when the schedule terminated because no active liability could make
// progress; the schedule and summary still describe the periods that
// were simulated before the engine gave up.
type Result struct {
	Fingerprint string                   `json:"fingerprint"`
	Schedule    engine.PayoffSchedule    `json:"schedule"`
	Summary     engine.ProjectionSummary `json:"summary"`
	Stuck       *StuckDetail             `json:"stuck,omitempty"`
}

// StuckDetail describes a non-amortizing termination.
type StuckDetail struct {
	PeriodIndex  int                 `json:"period_index"`
	LiabilityIDs []engine.LiabilityID `json:"liability_ids"`
}

// StrategyOutcome is one side of a comparison.
type StrategyOutcome struct {
	Strategy          engine.Strategy `json:"strategy"`
	PayoffPeriodIndex *int            `json:"payoff_period_index"`
	TotalInterestPaid engine.Money    `json:"total_interest_paid"`
	Termination       string          `json:"termination"`
}

// Comparison holds both strategy outcomes over the same input. Savings
// fields are only meaningful when both outcomes completed.
type Comparison struct {
	Snowball       StrategyOutcome `json:"snowball"`
	Avalanche      StrategyOutcome `json:"avalanche"`
	InterestSaved  engine.Money    `json:"interest_saved"`
	MonthsSaved    int             `json:"months_saved"`
	Recommended    engine.Strategy `json:"recommended"`
}

// Service computes, caches and records payoff plans.
type Service struct {
	Store *sqlite.Store
	Cache cache.Cache
	Cap   int
}

// NewService wires a plan service. Store may be nil for ephemeral use;
// cache must not be (use cache.NewMemory for a no-infra default).
func NewService(store *sqlite.Store, c cache.Cache, periodCap int) *Service {
	if periodCap <= 0 {
		periodCap = engine.DefaultPeriodCap
	}
	return &Service{Store: store, Cache: c, Cap: periodCap}
}

// Compute builds the schedule and projection for one request. Invalid
// input surfaces as an error; a non-amortizing schedule does not - it
// comes back as a Result with Stuck populated.
func (s *Service) Compute(ctx context.Context, req Request) (*Result, error) {
	if req.PeriodCap <= 0 {
		req.PeriodCap = s.Cap
	}
	if req.StartDate.IsZero() {
		req.StartDate = firstOfNextMonth(time.Now().UTC())
	}

	key := Fingerprint(req)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		var res Result
		if err := json.Unmarshal([]byte(cached), &res); err == nil {
			return &res, nil
		}
		// A corrupt entry is recomputed, not fatal.
		log.Printf("cache: discarding unreadable entry %s", key)
	}

	schedule, err := engine.BuildSchedule(engine.ScheduleInput{
		Liabilities: req.Liabilities,
		Strategy:    req.Strategy,
		PaymentMode: req.PaymentMode,
		Surplus:     req.Surplus,
		PeriodCap:   req.PeriodCap,
	})

	res := Result{Fingerprint: key}
	if err != nil {
		var stuck *engine.NonAmortizingScheduleError
		if !errors.As(err, &stuck) {
			return nil, err
		}
		res.Stuck = &StuckDetail{
			PeriodIndex:  stuck.PeriodIndex,
			LiabilityIDs: stuck.LiabilityIDs,
		}
	}
	res.Schedule = *schedule
	res.Summary = engine.Summarize(schedule, req.StartDate)

	payload, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode plan result: %w", err)
	}
	if err := s.Cache.Set(ctx, key, string(payload)); err != nil {
		log.Printf("cache: set %s failed: %v", key, err)
	}

	if s.Store != nil {
		if err := s.recordRun(ctx, req, &res, payload); err != nil {
			log.Printf("store: recording plan run failed: %v", err)
		}
	}
	return &res, nil
}

// Compare runs both strategies over the same liabilities, mode and
// surplus. Results are neither cached nor persisted: the comparison is
// a what-if view, not a committed plan.
func (s *Service) Compare(ctx context.Context, req Request) (*Comparison, error) {
	outcomes := make(map[engine.Strategy]*Result, 2)
	for _, strat := range []engine.Strategy{engine.StrategySnowball, engine.StrategyAvalanche} {
		r := req
		r.Strategy = strat
		if r.PeriodCap <= 0 {
			r.PeriodCap = s.Cap
		}
		if r.StartDate.IsZero() {
			r.StartDate = firstOfNextMonth(time.Now().UTC())
		}

		schedule, err := engine.BuildSchedule(engine.ScheduleInput{
			Liabilities: r.Liabilities,
			Strategy:    r.Strategy,
			PaymentMode: r.PaymentMode,
			Surplus:     r.Surplus,
			PeriodCap:   r.PeriodCap,
		})
		res := &Result{}
		if err != nil {
			var stuck *engine.NonAmortizingScheduleError
			if !errors.As(err, &stuck) {
				return nil, err
			}
			res.Stuck = &StuckDetail{PeriodIndex: stuck.PeriodIndex, LiabilityIDs: stuck.LiabilityIDs}
		}
		res.Schedule = *schedule
		res.Summary = engine.Summarize(schedule, r.StartDate)
		outcomes[strat] = res
	}

	cmp := &Comparison{
		Snowball:  outcome(engine.StrategySnowball, outcomes[engine.StrategySnowball]),
		Avalanche: outcome(engine.StrategyAvalanche, outcomes[engine.StrategyAvalanche]),
	}

	sb, av := outcomes[engine.StrategySnowball], outcomes[engine.StrategyAvalanche]
	if sb.Schedule.Complete() && av.Schedule.Complete() {
		cmp.InterestSaved = sb.Summary.TotalInterestPaid.Sub(av.Summary.TotalInterestPaid)
		cmp.MonthsSaved = *sb.Summary.PayoffPeriodIndex - *av.Summary.PayoffPeriodIndex
		// Avalanche never pays more interest than snowball; recommend
		// snowball only when the two are identical on both axes.
		if cmp.InterestSaved.IsZero() && cmp.MonthsSaved == 0 {
			cmp.Recommended = engine.StrategySnowball
		} else {
			cmp.Recommended = engine.StrategyAvalanche
		}
	} else {
		cmp.InterestSaved = engine.ZeroMoney()
		if av.Schedule.Complete() {
			cmp.Recommended = engine.StrategyAvalanche
		} else if sb.Schedule.Complete() {
			cmp.Recommended = engine.StrategySnowball
		}
	}
	return cmp, nil
}

func outcome(strat engine.Strategy, r *Result) StrategyOutcome {
	o := StrategyOutcome{
		Strategy:          strat,
		PayoffPeriodIndex: r.Summary.PayoffPeriodIndex,
		TotalInterestPaid: r.Summary.TotalInterestPaid,
		Termination:       string(r.Schedule.Termination),
	}
	return o
}

func (s *Service) recordRun(ctx context.Context, req Request, res *Result, payload []byte) error {
	rec := sqlite.PlanRunRecord{
		ID:          res.Fingerprint,
		Strategy:    string(req.Strategy),
		PaymentMode: string(req.PaymentMode),
		Surplus:     req.Surplus.String(),
		StartDate:   req.StartDate.UTC(),
		Termination: string(res.Schedule.Termination),
		Periods:     len(res.Schedule.Periods),
		ResultJSON:  string(payload),
	}
	if res.Summary.PayoffPeriodIndex != nil {
		n := *res.Summary.PayoffPeriodIndex
		rec.PayoffPeriod = &n
	}
	rec.TotalInterest = res.Summary.TotalInterestPaid.String()
	return s.Store.SavePlanRun(ctx, rec)
}

// firstOfNextMonth anchors undated requests: the first payment lands on
// the first day of the month after the request.
func firstOfNextMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
