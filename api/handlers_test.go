package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payoff-engine/api"
	"github.com/warp/payoff-engine/cache"
	"github.com/warp/payoff-engine/plan"
	"github.com/warp/payoff-engine/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := plan.NewService(st, cache.NewMemory(), 0)
	router := api.NewRouter(api.NewHandler(st, svc), nil)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestLiabilityCRUD(t *testing.T) {
	ts := newTestServer(t)

	save := api.SaveLiabilityRequest{
		ID: "visa", Name: "Visa card", Balance: 2500, APR: 19.99, MinimumPayment: 75,
	}
	var saved api.LiabilityDTO
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/liabilities", save, &saved)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "visa", saved.ID)

	// Update through the item route; the URL id wins over the body.
	update := save
	update.Balance = 2400
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/liabilities/visa", update, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got api.LiabilityDTO
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/liabilities/visa", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Visa card", got.Name)
	assert.InDelta(t, 2400, got.Balance, 0.001)

	var all []api.LiabilityDTO
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/liabilities", nil, &all)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, all, 1)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/liabilities/visa", nil)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/liabilities/visa", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveLiabilityRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	for name, body := range map[string]api.SaveLiabilityRequest{
		"missing id":       {Name: "anon", Balance: 100},
		"negative balance": {ID: "bad", Balance: -1},
		"negative apr":     {ID: "bad", Balance: 100, APR: -2},
	} {
		t.Run(name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/liabilities", body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestComputePlanInline(t *testing.T) {
	ts := newTestServer(t)

	reqBody := api.ComputePlanRequest{
		Liabilities: []api.LiabilityDTO{
			{ID: "card", Balance: 2500, APR: 19.99, MinimumPayment: 150},
		},
		Strategy:    "avalanche",
		PaymentMode: "aggressive",
		Surplus:     0,
		StartDate:   "2026-03-01",
	}

	var result plan.Result
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/plans", reqBody, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, result.Schedule.Complete())
	require.NotNil(t, result.Summary.PayoffPeriodIndex)
	assert.Equal(t, 20, *result.Summary.PayoffPeriodIndex)
	assert.NotEmpty(t, result.Fingerprint)

	// The run was persisted and its full payload is retrievable.
	var runs []api.PlanRunDTO
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/plans", nil, &runs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, runs, 1)
	assert.Equal(t, result.Fingerprint, runs[0].ID)
	assert.Equal(t, "all_paid", runs[0].Termination)

	var replay plan.Result
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/plans/"+result.Fingerprint, nil, &replay)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, len(result.Schedule.Periods), len(replay.Schedule.Periods))
}

func TestComputePlanUsesStoredLiabilities(t *testing.T) {
	ts := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/api/liabilities", api.SaveLiabilityRequest{
		ID: "stored", Balance: 300, MinimumPayment: 50,
	}, nil)

	var result plan.Result
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/plans", api.ComputePlanRequest{
		Strategy:    "snowball",
		PaymentMode: "lazy",
	}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, result.Schedule.Complete())
	assert.Len(t, result.Schedule.Periods, 6)
}

func TestComputePlanValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body api.ComputePlanRequest
	}{
		{"unknown strategy", api.ComputePlanRequest{
			Liabilities: []api.LiabilityDTO{{ID: "a", Balance: 100, MinimumPayment: 10}},
			Strategy:    "biggest-first", PaymentMode: "lazy",
		}},
		{"unknown mode", api.ComputePlanRequest{
			Liabilities: []api.LiabilityDTO{{ID: "a", Balance: 100, MinimumPayment: 10}},
			Strategy:    "snowball", PaymentMode: "yolo",
		}},
		{"negative balance", api.ComputePlanRequest{
			Liabilities: []api.LiabilityDTO{{ID: "a", Balance: -5, MinimumPayment: 10}},
			Strategy:    "snowball", PaymentMode: "lazy",
		}},
		{"bad start date", api.ComputePlanRequest{
			Liabilities: []api.LiabilityDTO{{ID: "a", Balance: 100, MinimumPayment: 10}},
			Strategy:    "snowball", PaymentMode: "lazy", StartDate: "03/01/2026",
		}},
		{"no liabilities anywhere", api.ComputePlanRequest{
			Strategy: "snowball", PaymentMode: "lazy",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/plans", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestComputePlanNonAmortizingIsNotAnError(t *testing.T) {
	ts := newTestServer(t)

	var result plan.Result
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/plans", api.ComputePlanRequest{
		Liabilities: []api.LiabilityDTO{
			{ID: "trap", Balance: 1000, APR: 36, MinimumPayment: 1},
		},
		Strategy:    "avalanche",
		PaymentMode: "lazy",
	}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, result.Stuck)
	assert.Equal(t, 1, result.Stuck.PeriodIndex)
	assert.Equal(t, "non_amortizing", string(result.Schedule.Termination))
}

func TestComparePlans(t *testing.T) {
	ts := newTestServer(t)

	var cmp plan.Comparison
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/plans/compare", api.ComputePlanRequest{
		Liabilities: []api.LiabilityDTO{
			{ID: "small-cheap", Balance: 500, APR: 9.9, MinimumPayment: 25},
			{ID: "large-costly", Balance: 5000, APR: 24.99, MinimumPayment: 150},
		},
		PaymentMode: "aggressive",
		Surplus:     200,
		StartDate:   "2026-05-01",
	}, &cmp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "avalanche", string(cmp.Recommended))
	require.NotNil(t, cmp.Snowball.PayoffPeriodIndex)
	require.NotNil(t, cmp.Avalanche.PayoffPeriodIndex)
}

func TestScenarioEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var scenarios []plan.Scenario
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/scenarios", nil, &scenarios)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, scenarios)

	var sc plan.Scenario
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/scenarios/"+scenarios[0].ID, nil, &sc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, scenarios[0].ID, sc.ID)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/scenarios/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoadScenarioPopulatesStore(t *testing.T) {
	ts := newTestServer(t)

	var sc plan.Scenario
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ID: "starter-mix"}, &sc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, sc.Liabilities)

	var all []api.LiabilityDTO
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/liabilities", nil, &all)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, all, len(sc.Liabilities))

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/scenarios/load",
		api.LoadScenarioRequest{ID: "nope"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetPlanRunMissing(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+fmt.Sprintf("/api/plans/%x", "nothing"), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
