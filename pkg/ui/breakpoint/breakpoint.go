// Package breakpoint maps window widths to discrete size tiers.
//
// Thresholds are inclusive lower bounds: a width exactly equal to a tier's
// minimum width belongs to that tier. Resolution is total, pure, and
// monotonic in width.
package breakpoint

import (
	"fmt"
	"sort"
)

// Tier is a discrete window-size bucket.
type Tier int

const (
	TierXS Tier = iota
	TierSM
	TierMD
	TierLG
	TierXL
)

var tierNames = map[Tier]string{
	TierXS: "xs",
	TierSM: "sm",
	TierMD: "md",
	TierLG: "lg",
	TierXL: "xl",
}

// String returns the lowercase tier name.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier parses a tier name. Used by the config loader.
func ParseTier(name string) (Tier, error) {
	for t, n := range tierNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", name)
}

// AtLeast returns true if t is the given tier or larger.
func (t Tier) AtLeast(other Tier) bool {
	return t >= other
}

// AtMost returns true if t is the given tier or smaller.
func (t Tier) AtMost(other Tier) bool {
	return t <= other
}

// Threshold pairs a tier with the minimum width at which it begins.
type Threshold struct {
	Tier     Tier
	MinWidth int
}

// Resolver resolves widths to tiers against a validated threshold table.
type Resolver struct {
	thresholds []Threshold // ascending by MinWidth
}

// Standard thresholds matching common device sizes, in cells.
func Standard() []Threshold {
	return []Threshold{
		{TierXS, 0},
		{TierSM, 60},
		{TierMD, 96},
		{TierLG, 128},
		{TierXL, 160},
	}
}

// Compact thresholds for denser layouts.
func Compact() []Threshold {
	return []Threshold{
		{TierXS, 0},
		{TierSM, 45},
		{TierMD, 75},
		{TierLG, 105},
		{TierXL, 135},
	}
}

// NewResolver validates the threshold table and returns a resolver.
// Thresholds must be strictly ascending in MinWidth with unique tiers;
// anything else is a configuration error, never silently reordered.
func NewResolver(thresholds []Threshold) (*Resolver, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("breakpoint: no thresholds configured")
	}
	seen := make(map[Tier]bool, len(thresholds))
	for i, th := range thresholds {
		if th.MinWidth < 0 {
			return nil, fmt.Errorf("breakpoint: negative min width %d for tier %s", th.MinWidth, th.Tier)
		}
		if seen[th.Tier] {
			return nil, fmt.Errorf("breakpoint: duplicate tier %s", th.Tier)
		}
		seen[th.Tier] = true
		if i > 0 {
			prev := thresholds[i-1]
			if th.MinWidth <= prev.MinWidth {
				return nil, fmt.Errorf("breakpoint: thresholds not strictly ascending: %s(%d) after %s(%d)",
					th.Tier, th.MinWidth, prev.Tier, prev.MinWidth)
			}
			if th.Tier <= prev.Tier {
				return nil, fmt.Errorf("breakpoint: tiers out of order: %s after %s", th.Tier, prev.Tier)
			}
		}
	}
	out := make([]Threshold, len(thresholds))
	copy(out, thresholds)
	return &Resolver{thresholds: out}, nil
}

// Resolve maps a width to its tier. Widths below the lowest threshold
// resolve to the lowest configured tier.
func (r *Resolver) Resolve(width int) Tier {
	// Find the highest threshold whose MinWidth <= width.
	idx := sort.Search(len(r.thresholds), func(i int) bool {
		return r.thresholds[i].MinWidth > width
	})
	if idx == 0 {
		return r.thresholds[0].Tier
	}
	return r.thresholds[idx-1].Tier
}

// Thresholds returns a copy of the validated threshold table.
func (r *Resolver) Thresholds() []Threshold {
	out := make([]Threshold, len(r.thresholds))
	copy(out, r.thresholds)
	return out
}
