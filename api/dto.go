/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal-backed domain model from the external API contract:
  clients send plain numbers, the engine keeps exact decimals internally.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (parseable dates, known selectors) happens in the
  handlers; monetary validation (negative balances and the like) belongs
  to the engine and is surfaced as a 400 via its error taxonomy.

SEE ALSO:
  - handlers.go: Uses these types
  - plan/service.go: The Result/Comparison payloads returned verbatim
*/
package api

// =============================================================================
// LIABILITIES
// =============================================================================

// LiabilityDTO represents one debt in API responses.
type LiabilityDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	APR            float64 `json:"apr"`
	MinimumPayment float64 `json:"minimum_payment"`
}

// SaveLiabilityRequest is the request to create or update a liability.
type SaveLiabilityRequest struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	APR            float64 `json:"apr"`
	MinimumPayment float64 `json:"minimum_payment"`
}

// =============================================================================
// PLANS
// =============================================================================

// ComputePlanRequest is the request to compute (or compare) a payoff plan.
// Liabilities may be supplied inline; when omitted, the stored liabilities
// are used. StartDate is YYYY-MM-DD and optional.
type ComputePlanRequest struct {
	Liabilities []LiabilityDTO `json:"liabilities,omitempty"`
	Strategy    string         `json:"strategy"`
	PaymentMode string         `json:"payment_mode"`
	Surplus     float64        `json:"surplus"`
	StartDate   string         `json:"start_date,omitempty"`
	PeriodCap   int            `json:"period_cap,omitempty"`
}

// PlanRunDTO is one saved plan run in listings. The full result payload
// is available at /api/plans/{id}.
type PlanRunDTO struct {
	ID            string `json:"id"`
	Strategy      string `json:"strategy"`
	PaymentMode   string `json:"payment_mode"`
	Surplus       string `json:"surplus"`
	StartDate     string `json:"start_date"`
	Termination   string `json:"termination"`
	Periods       int    `json:"periods"`
	PayoffPeriod  *int   `json:"payoff_period"`
	TotalInterest string `json:"total_interest"`
	CreatedAt     string `json:"created_at"`
}

// LoadScenarioRequest names the preset to copy into the store.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
