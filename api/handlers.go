/*
handlers.go - HTTP API handlers for the payoff scheduling engine

PURPOSE:
  Exposes the scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the plan
  service and store.

ENDPOINTS:
  Liabilities:
    GET    /api/liabilities            List stored liabilities
    POST   /api/liabilities            Create or update a liability
    GET    /api/liabilities/{id}       Get one liability
    PUT    /api/liabilities/{id}       Create or update by id
    DELETE /api/liabilities/{id}       Delete a liability

  Plans:
    POST   /api/plans                  Compute a payoff plan
    POST   /api/plans/compare          Run both strategies side by side
    GET    /api/plans                  List saved plan runs
    GET    /api/plans/{id}             Get a saved run's full result

  Scenarios:
    GET    /api/scenarios              List built-in presets
    GET    /api/scenarios/{id}         Get one preset
    POST   /api/scenarios/load         Copy a preset into the store

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (engine client errors)
  - 404: Resource not found
  - 500: Internal errors
  A non-amortizing schedule is NOT an error: it comes back 200 with
  termination "non_amortizing" and a stuck detail block.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/payoff-engine/engine"
	"github.com/warp/payoff-engine/plan"
	"github.com/warp/payoff-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Plans *plan.Service
}

// NewHandler creates a new handler over the given store and plan service.
func NewHandler(store *sqlite.Store, plans *plan.Service) *Handler {
	return &Handler{Store: store, Plans: plans}
}

// =============================================================================
// LIABILITY HANDLERS
// =============================================================================

// ListLiabilities returns all stored liabilities.
func (h *Handler) ListLiabilities(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListLiabilities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list liabilities", err)
		return
	}

	dtos := make([]LiabilityDTO, len(records))
	for i, rec := range records {
		dtos[i] = toLiabilityDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLiability returns a single liability.
func (h *Handler) GetLiability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetLiability(r.Context(), engine.LiabilityID(id))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Liability not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get liability", err)
		return
	}
	writeJSON(w, http.StatusOK, toLiabilityDTO(rec))
}

// SaveLiability creates or updates a liability. When the route carries
// an {id} parameter it wins over the body's id.
func (h *Handler) SaveLiability(w http.ResponseWriter, r *http.Request) {
	var req SaveLiabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		req.ID = id
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Liability id is required", nil)
		return
	}

	rec := fromLiabilityDTO(LiabilityDTO(req))
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid liability", err)
		return
	}

	if err := h.Store.SaveLiability(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save liability", err)
		return
	}
	writeJSON(w, http.StatusOK, toLiabilityDTO(rec))
}

// DeleteLiability removes a liability.
func (h *Handler) DeleteLiability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Store.DeleteLiability(r.Context(), engine.LiabilityID(id))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Liability not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete liability", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// ComputePlan computes a payoff plan for inline or stored liabilities.
// POST /api/plans
func (h *Handler) ComputePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlanRequest(w, r, true)
	if !ok {
		return
	}

	result, err := h.Plans.Compute(r.Context(), req)
	if err != nil {
		writePlanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ComparePlans runs snowball and avalanche over the same input.
// POST /api/plans/compare
func (h *Handler) ComparePlans(w http.ResponseWriter, r *http.Request) {
	// Strategy is chosen by the comparison itself.
	req, ok := h.decodePlanRequest(w, r, false)
	if !ok {
		return
	}

	cmp, err := h.Plans.Compare(r.Context(), req)
	if err != nil {
		writePlanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// ListPlanRuns returns saved plan runs, newest first.
func (h *Handler) ListPlanRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListPlanRuns(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plan runs", err)
		return
	}

	dtos := make([]PlanRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = PlanRunDTO{
			ID:            run.ID,
			Strategy:      run.Strategy,
			PaymentMode:   run.PaymentMode,
			Surplus:       run.Surplus,
			StartDate:     run.StartDate.Format("2006-01-02"),
			Termination:   run.Termination,
			Periods:       run.Periods,
			PayoffPeriod:  run.PayoffPeriod,
			TotalInterest: run.TotalInterest,
			CreatedAt:     run.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPlanRun returns a saved run's full result payload.
func (h *Handler) GetPlanRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetPlanRun(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Plan run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get plan run", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(run.ResultJSON))
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the built-in presets.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, plan.Scenarios())
}

// GetScenario returns one preset by id.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sc, ok := plan.ScenarioByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Scenario not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// LoadScenario copies a preset's liabilities into the store so the
// stored-liability plan flow can run against it.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, ok := plan.ScenarioByID(req.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "Scenario not found", nil)
		return
	}

	for _, rec := range sc.Liabilities {
		if err := h.Store.SaveLiability(r.Context(), rec); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, sc)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodePlanRequest(w http.ResponseWriter, r *http.Request, requireStrategy bool) (plan.Request, bool) {
	var dto ComputePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return plan.Request{}, false
	}

	req := plan.Request{
		Strategy:    engine.Strategy(dto.Strategy),
		PaymentMode: engine.PaymentMode(dto.PaymentMode),
		Surplus:     engine.NewMoney(dto.Surplus),
		PeriodCap:   dto.PeriodCap,
	}

	if requireStrategy && !req.Strategy.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown strategy (use snowball or avalanche)", nil)
		return plan.Request{}, false
	}
	if !req.PaymentMode.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown payment_mode (use aggressive, balanced or lazy)", nil)
		return plan.Request{}, false
	}

	if dto.StartDate != "" {
		start, err := time.Parse("2006-01-02", dto.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
			return plan.Request{}, false
		}
		req.StartDate = start
	}

	if len(dto.Liabilities) > 0 {
		req.Liabilities = make([]engine.LiabilityRecord, len(dto.Liabilities))
		for i, l := range dto.Liabilities {
			req.Liabilities[i] = fromLiabilityDTO(l)
		}
	} else {
		stored, err := h.Store.ListLiabilities(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load stored liabilities", err)
			return plan.Request{}, false
		}
		if len(stored) == 0 {
			writeError(w, http.StatusBadRequest, "No liabilities supplied and none stored", nil)
			return plan.Request{}, false
		}
		req.Liabilities = stored
	}
	return req, true
}

func toLiabilityDTO(rec engine.LiabilityRecord) LiabilityDTO {
	apr, _ := rec.APR.Float64()
	return LiabilityDTO{
		ID:             string(rec.ID),
		Name:           rec.Name,
		Balance:        rec.Balance.Float64(),
		APR:            apr,
		MinimumPayment: rec.MinimumPayment.Float64(),
	}
}

func fromLiabilityDTO(dto LiabilityDTO) engine.LiabilityRecord {
	return engine.LiabilityRecord{
		ID:             engine.LiabilityID(dto.ID),
		Name:           dto.Name,
		Balance:        engine.NewMoney(dto.Balance),
		APR:            decimal.NewFromFloat(dto.APR),
		MinimumPayment: engine.NewMoney(dto.MinimumPayment),
	}
}

func writePlanError(w http.ResponseWriter, err error) {
	if engine.IsClientError(err) {
		writeError(w, http.StatusBadRequest, "Invalid plan request", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to compute plan", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
