// Package responsive evaluates per-region visibility and variant rules
// against the current breakpoint tier.
//
// Evaluation is pure and order-independent: the same rule set against the
// same tier always yields the same result, and no rule can affect another
// region's outcome.
package responsive

import (
	"sort"

	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
)

// Rule binds a visibility range to a region id. A region is visible iff
// the current tier falls in [MinTier, MaxTier]; a nil bound is unbounded.
type Rule struct {
	Region  string
	MinTier *breakpoint.Tier
	MaxTier *breakpoint.Tier
}

// Show builds an unbounded rule for a region.
func Show(region string) Rule {
	return Rule{Region: region}
}

// Min restricts the rule to the given tier or larger.
func (r Rule) Min(tier breakpoint.Tier) Rule {
	t := tier
	r.MinTier = &t
	return r
}

// Max restricts the rule to the given tier or smaller.
func (r Rule) Max(tier breakpoint.Tier) Rule {
	t := tier
	r.MaxTier = &t
	return r
}

// Matches reports whether the rule admits the given tier.
func (r Rule) Matches(tier breakpoint.Tier) bool {
	if r.MinTier != nil && tier < *r.MinTier {
		return false
	}
	if r.MaxTier != nil && tier > *r.MaxTier {
		return false
	}
	return true
}

// Evaluate computes region visibility for the given tier. Regions without
// a rule are absent from the result; callers treat absence as visible.
// A region with multiple rules is visible if any rule admits the tier.
func Evaluate(tier breakpoint.Tier, rules []Rule) map[string]bool {
	out := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if rule.Region == "" {
			continue
		}
		out[rule.Region] = out[rule.Region] || rule.Matches(tier)
	}
	return out
}

// Value holds per-tier overrides of a value. Resolution picks the override
// with the closest tier at or below the current tier; if none is defined
// that low, it falls back to the lowest defined tier.
type Value[T any] struct {
	overrides map[breakpoint.Tier]T
}

// NewValue creates a responsive value with a base defined at the lowest tier.
func NewValue[T any](base T) *Value[T] {
	return &Value[T]{overrides: map[breakpoint.Tier]T{breakpoint.TierXS: base}}
}

// At sets the value for the given tier and up.
func (v *Value[T]) At(tier breakpoint.Tier, value T) *Value[T] {
	v.overrides[tier] = value
	return v
}

// Get resolves the value for the given tier.
func (v *Value[T]) Get(tier breakpoint.Tier) T {
	tiers := make([]breakpoint.Tier, 0, len(v.overrides))
	for t := range v.overrides {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

	// Closest defined tier <= current wins.
	best := tiers[0]
	found := false
	for _, t := range tiers {
		if t <= tier {
			best = t
			found = true
		}
	}
	if !found {
		// Nothing defined at or below: lowest defined tier.
		best = tiers[0]
	}
	return v.overrides[best]
}
