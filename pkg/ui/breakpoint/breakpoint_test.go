package breakpoint

import (
	"testing"
)

func TestNewResolver_RejectsNonAscending(t *testing.T) {
	_, err := NewResolver([]Threshold{
		{TierXS, 0},
		{TierMD, 96},
		{TierSM, 60},
	})
	if err == nil {
		t.Fatal("expected error for non-ascending thresholds")
	}
}

func TestNewResolver_RejectsDuplicateTier(t *testing.T) {
	_, err := NewResolver([]Threshold{
		{TierSM, 60},
		{TierSM, 96},
	})
	if err == nil {
		t.Fatal("expected error for duplicate tier")
	}
}

func TestNewResolver_RejectsDuplicateWidth(t *testing.T) {
	_, err := NewResolver([]Threshold{
		{TierSM, 60},
		{TierMD, 60},
	})
	if err == nil {
		t.Fatal("expected error for duplicate min width")
	}
}

func TestNewResolver_RejectsEmpty(t *testing.T) {
	if _, err := NewResolver(nil); err == nil {
		t.Fatal("expected error for empty thresholds")
	}
}

func TestResolve_InclusiveLowerBound(t *testing.T) {
	r, err := NewResolver([]Threshold{
		{TierSM, 640},
		{TierMD, 768},
		{TierLG, 1024},
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	cases := []struct {
		width int
		want  Tier
	}{
		{0, TierSM},    // below lowest threshold resolves to lowest tier
		{639, TierSM},
		{640, TierSM},
		{700, TierSM},
		{767, TierSM},
		{768, TierMD},  // exact threshold belongs to the higher tier
		{1023, TierMD},
		{1024, TierLG},
		{5000, TierLG},
	}
	for _, tc := range cases {
		if got := r.Resolve(tc.width); got != tc.want {
			t.Errorf("Resolve(%d) = %s, want %s", tc.width, got, tc.want)
		}
	}
}

func TestResolve_Monotonic(t *testing.T) {
	r, err := NewResolver(Standard())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	prev := r.Resolve(0)
	for w := 1; w <= 300; w++ {
		cur := r.Resolve(w)
		if cur < prev {
			t.Fatalf("Resolve not monotonic: Resolve(%d)=%s < Resolve(%d)=%s", w, cur, w-1, prev)
		}
		prev = cur
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r, err := NewResolver(Compact())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	for w := 0; w < 200; w += 7 {
		if r.Resolve(w) != r.Resolve(w) {
			t.Fatalf("Resolve(%d) not deterministic", w)
		}
	}
}

func TestTier_Ordering(t *testing.T) {
	if !TierMD.AtLeast(TierSM) {
		t.Error("MD should be at least SM")
	}
	if !TierMD.AtMost(TierLG) {
		t.Error("MD should be at most LG")
	}
	if TierXS.AtLeast(TierXL) {
		t.Error("XS should not be at least XL")
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("md")
	if err != nil {
		t.Fatalf("ParseTier: %v", err)
	}
	if tier != TierMD {
		t.Errorf("ParseTier(md) = %s, want md", tier)
	}
	if _, err := ParseTier("huge"); err == nil {
		t.Error("expected error for unknown tier name")
	}
}
