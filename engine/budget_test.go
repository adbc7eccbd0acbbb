package engine_test

import (
	"testing"

	"github.com/warp/payoff-engine/engine"
)

func TestExtraBudget_SurplusFactorPerMode(t *testing.T) {
	surplus := engine.NewMoney(100)
	freed := engine.ZeroMoney()

	cases := []struct {
		mode engine.PaymentMode
		want engine.Money
	}{
		{engine.ModeAggressive, engine.NewMoney(100)},
		{engine.ModeBalanced, engine.NewMoney(50)},
		{engine.ModeLazy, engine.ZeroMoney()},
	}
	for _, c := range cases {
		got := engine.ExtraBudget(c.mode, surplus, freed)
		if !got.Equal(c.want) {
			t.Errorf("%s: extra = %s, want %s", c.mode, got, c.want)
		}
	}
}

func TestExtraBudget_FreedMinimumBypassesTheSurplusFactor(t *testing.T) {
	// Freed minimums are cash already committed to debt service; even in
	// lazy mode they are fully redirected.
	surplus := engine.NewMoney(100)
	freed := engine.NewMoney(25)

	if got := engine.ExtraBudget(engine.ModeLazy, surplus, freed); !got.Equal(engine.NewMoney(25)) {
		t.Errorf("lazy: extra = %s, want 25.00", got)
	}
	if got := engine.ExtraBudget(engine.ModeAggressive, surplus, freed); !got.Equal(engine.NewMoney(125)) {
		t.Errorf("aggressive: extra = %s, want 125.00", got)
	}
}

func TestExtraBudget_BalancedHalvingRoundsHalfUpToCents(t *testing.T) {
	// 33.33 / 2 = 16.665 -> 16.67
	got := engine.ExtraBudget(engine.ModeBalanced, engine.NewMoney(33.33), engine.ZeroMoney())
	if !got.Equal(engine.NewMoney(16.67)) {
		t.Errorf("extra = %s, want 16.67", got)
	}
}
