/*
scenarios.go - Preset liability sets

PURPOSE:
  Ready-made inputs for exploring the engine without entering data:
  a typical household mix, a set built to make the two strategies
  disagree, and a deliberately under-funded trap that demonstrates the
  non-amortization guard.
*/
package plan

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payoff-engine/engine"
)

// Scenario is a named, ready-to-run liability set.
type Scenario struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Liabilities []engine.LiabilityRecord `json:"liabilities"`
}

// Scenarios returns the built-in presets in a stable order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			ID:          "starter-mix",
			Name:        "Typical household mix",
			Description: "A credit card, a car note and a medical bill at everyday rates.",
			Liabilities: []engine.LiabilityRecord{
				newLiability("visa", "Visa card", 2500, 19.99, 75),
				newLiability("car", "Car loan", 9000, 6.5, 260),
				newLiability("medical", "Medical bill", 800, 0, 50),
			},
		},
		{
			ID:          "strategy-contrast",
			Name:        "Snowball vs avalanche",
			Description: "Smallest balance carries the lowest rate, so the two orderings diverge.",
			Liabilities: []engine.LiabilityRecord{
				newLiability("small-cheap", "Store card", 500, 9.9, 25),
				newLiability("large-costly", "Rewards card", 5000, 24.99, 150),
			},
		},
		{
			ID:          "underwater",
			Name:        "Under-funded trap",
			Description: "Minimum payments below monthly interest; the schedule stalls immediately.",
			Liabilities: []engine.LiabilityRecord{
				newLiability("trap", "High-rate card", 1000, 36, 1),
			},
		},
	}
}

// ScenarioByID returns the preset with the given id, or false.
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

func newLiability(id, name string, balance, apr, minimum float64) engine.LiabilityRecord {
	return engine.LiabilityRecord{
		ID:             engine.LiabilityID(id),
		Name:           name,
		Balance:        engine.NewMoney(balance),
		APR:            decimal.NewFromFloat(apr),
		MinimumPayment: engine.NewMoney(minimum),
	}
}
