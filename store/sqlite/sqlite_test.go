package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payoff-engine/engine"
	"github.com/warp/payoff-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func liability(id string, balance, apr, minimum string) engine.LiabilityRecord {
	return engine.LiabilityRecord{
		ID:             engine.LiabilityID(id),
		Name:           id,
		Balance:        engine.MustParseMoney(balance),
		APR:            decimal.RequireFromString(apr),
		MinimumPayment: engine.MustParseMoney(minimum),
	}
}

func TestLiabilityRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	in := liability("visa", "2500.00", "19.99", "75.00")
	in.Name = "Visa card"
	require.NoError(t, st.SaveLiability(ctx, in))

	out, err := st.GetLiability(ctx, "visa")
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "Visa card", out.Name)
	assert.True(t, in.Balance.Equal(out.Balance))
	assert.True(t, in.APR.Equal(out.APR))
	assert.True(t, in.MinimumPayment.Equal(out.MinimumPayment))
}

func TestSaveLiabilityUpserts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveLiability(ctx, liability("card", "1000.00", "12", "40.00")))
	require.NoError(t, st.SaveLiability(ctx, liability("card", "850.00", "12", "40.00")))

	out, err := st.GetLiability(ctx, "card")
	require.NoError(t, err)
	assert.Equal(t, "850.00", out.Balance.String())

	all, err := st.ListLiabilities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListLiabilitiesOrderedByID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, st.SaveLiability(ctx, liability(id, "100.00", "0", "10.00")))
	}

	all, err := st.ListLiabilities(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, engine.LiabilityID("alpha"), all[0].ID)
	assert.Equal(t, engine.LiabilityID("mid"), all[1].ID)
	assert.Equal(t, engine.LiabilityID("zeta"), all[2].ID)
}

func TestGetAndDeleteMissingLiability(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.GetLiability(ctx, "ghost")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)

	err = st.DeleteLiability(ctx, "ghost")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestDeleteLiability(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveLiability(ctx, liability("gone", "50.00", "0", "5.00")))
	require.NoError(t, st.DeleteLiability(ctx, "gone"))

	_, err := st.GetLiability(ctx, "gone")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestPlanRunRoundTripAndListing(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	payoff := 20
	first := sqlite.PlanRunRecord{
		ID:            "run-a",
		Strategy:      "avalanche",
		PaymentMode:   "aggressive",
		Surplus:       "100.00",
		StartDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Termination:   "all_paid",
		Periods:       20,
		PayoffPeriod:  &payoff,
		TotalInterest: "453.04",
		ResultJSON:    `{"fingerprint":"run-a"}`,
		CreatedAt:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	second := sqlite.PlanRunRecord{
		ID:          "run-b",
		Strategy:    "snowball",
		PaymentMode: "lazy",
		Surplus:     "0.00",
		StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Termination: "non_amortizing",
		Periods:     1,
		// PayoffPeriod stays nil for a partial schedule.
		TotalInterest: "30.00",
		ResultJSON:    `{"fingerprint":"run-b"}`,
		CreatedAt:     time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.SavePlanRun(ctx, first))
	require.NoError(t, st.SavePlanRun(ctx, second))

	got, err := st.GetPlanRun(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, "avalanche", got.Strategy)
	require.NotNil(t, got.PayoffPeriod)
	assert.Equal(t, 20, *got.PayoffPeriod)
	assert.Equal(t, "453.04", got.TotalInterest)
	assert.True(t, got.StartDate.Equal(first.StartDate))

	partial, err := st.GetPlanRun(ctx, "run-b")
	require.NoError(t, err)
	assert.Nil(t, partial.PayoffPeriod)

	runs, err := st.ListPlanRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Newest first.
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)

	one, err := st.ListPlanRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "run-b", one[0].ID)
}

func TestSavePlanRunIdempotentByID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rec := sqlite.PlanRunRecord{
		ID:            "dup",
		Strategy:      "snowball",
		PaymentMode:   "balanced",
		Surplus:       "50.00",
		StartDate:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Termination:   "all_paid",
		Periods:       3,
		TotalInterest: "1.20",
		ResultJSON:    `{}`,
	}
	require.NoError(t, st.SavePlanRun(ctx, rec))
	require.NoError(t, st.SavePlanRun(ctx, rec))

	runs, err := st.ListPlanRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestGetPlanRunMissing(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetPlanRun(context.Background(), "ghost")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}
