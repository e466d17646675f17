package responsive

import (
	"testing"

	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
)

func TestRule_Bounds(t *testing.T) {
	rule := Show("sidebar").Min(breakpoint.TierMD)

	if rule.Matches(breakpoint.TierSM) {
		t.Error("sidebar should be hidden below md")
	}
	if !rule.Matches(breakpoint.TierMD) {
		t.Error("min bound is inclusive")
	}
	if !rule.Matches(breakpoint.TierXL) {
		t.Error("open max bound is unbounded")
	}

	capped := Show("touchbar").Max(breakpoint.TierSM)
	if !capped.Matches(breakpoint.TierXS) {
		t.Error("open min bound is unbounded")
	}
	if !capped.Matches(breakpoint.TierSM) {
		t.Error("max bound is inclusive")
	}
	if capped.Matches(breakpoint.TierMD) {
		t.Error("touchbar should be hidden above sm")
	}
}

func TestEvaluate_OrderIndependent(t *testing.T) {
	rules := []Rule{
		Show("sidebar").Min(breakpoint.TierMD),
		Show("status"),
		Show("touchbar").Max(breakpoint.TierSM),
	}
	reversed := []Rule{rules[2], rules[1], rules[0]}

	a := Evaluate(breakpoint.TierLG, rules)
	b := Evaluate(breakpoint.TierLG, reversed)

	for region, visible := range a {
		if b[region] != visible {
			t.Errorf("region %s: evaluation depends on rule order", region)
		}
	}
	if !a["sidebar"] || !a["status"] || a["touchbar"] {
		t.Errorf("unexpected visibility at lg: %v", a)
	}
}

func TestEvaluate_Repeatable(t *testing.T) {
	rules := []Rule{Show("sidebar").Min(breakpoint.TierMD)}

	first := Evaluate(breakpoint.TierSM, rules)
	second := Evaluate(breakpoint.TierSM, rules)

	if first["sidebar"] != second["sidebar"] {
		t.Error("evaluation must be identical across calls")
	}
	if first["sidebar"] {
		t.Error("sidebar should be hidden at sm")
	}
}

func TestValue_ClosestTierAtOrBelow(t *testing.T) {
	cols := NewValue(1).
		At(breakpoint.TierMD, 2).
		At(breakpoint.TierXL, 4)

	cases := []struct {
		tier breakpoint.Tier
		want int
	}{
		{breakpoint.TierXS, 1},
		{breakpoint.TierSM, 1}, // no sm override: closest below is xs
		{breakpoint.TierMD, 2},
		{breakpoint.TierLG, 2}, // no lg override: closest below is md
		{breakpoint.TierXL, 4},
	}
	for _, tc := range cases {
		if got := cols.Get(tc.tier); got != tc.want {
			t.Errorf("Get(%s) = %d, want %d", tc.tier, got, tc.want)
		}
	}
}

func TestValue_FallsBackToLowestDefined(t *testing.T) {
	v := &Value[string]{overrides: map[breakpoint.Tier]string{
		breakpoint.TierLG: "wide",
	}}
	if got := v.Get(breakpoint.TierSM); got != "wide" {
		t.Errorf("Get(sm) = %q, want fallback to lowest defined tier", got)
	}
}
