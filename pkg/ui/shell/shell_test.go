package shell

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
	"github.com/odvcencio/shellkit/pkg/ui/layoutstore"
	"github.com/odvcencio/shellkit/pkg/ui/overlay"
)

type eventLog struct {
	envelopes []Envelope
}

func (l *eventLog) dispatch(env Envelope) {
	l.envelopes = append(l.envelopes, env)
}

func (l *eventLog) ofType(match func(Event) bool) []Envelope {
	var out []Envelope
	for _, env := range l.envelopes {
		if match(env.Event) {
			out = append(out, env)
		}
	}
	return out
}

func newTestShell(t *testing.T, mutate func(*Options)) (*Shell, *eventLog) {
	t.Helper()
	log := &eventLog{}
	opts := Options{
		Width:    120,
		Height:   40,
		Dispatch: log.dispatch,
		Now:      func() time.Time { return time.Unix(1000, 0) },
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, log
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompose_RegionLayout(t *testing.T) {
	s, _ := newTestShell(t, nil)

	tree := s.Compose()
	header := tree.Region(RegionHeader)
	if header.Bounds.Y != 0 || header.Bounds.Height != 1 || header.Bounds.Width != 120 {
		t.Errorf("header bounds = %+v", header.Bounds)
	}
	status := tree.Region(RegionStatus)
	if status.Bounds.Y != 39 || status.Bounds.Height != 1 {
		t.Errorf("status bounds = %+v", status.Bounds)
	}

	sidebar := tree.Region(RegionSidebar)
	width := 120
	wantW := int(0.22 * float64(width))
	if sidebar.Bounds.Width != wantW || sidebar.Bounds.Y != 1 || sidebar.Bounds.Height != 38 {
		t.Errorf("sidebar bounds = %+v, want width %d", sidebar.Bounds, wantW)
	}
	main := tree.Region(RegionMain)
	if main.Bounds.X != wantW || main.Bounds.Width != 120-wantW {
		t.Errorf("main bounds = %+v", main.Bounds)
	}
}

func TestResize_EmitsTierChangedOnCrossing(t *testing.T) {
	s, log := newTestShell(t, nil)
	if s.Tier() != breakpoint.TierMD {
		t.Fatalf("initial tier = %v, want MD at width 120", s.Tier())
	}

	s.Resize(130, 40)
	s.Resize(135, 40) // same tier, no event
	s.Resize(50, 40)

	changes := log.ofType(func(e Event) bool {
		_, ok := e.(TierChanged)
		return ok
	})
	if len(changes) != 2 {
		t.Fatalf("got %d TierChanged events, want 2", len(changes))
	}
	first := changes[0].Event.(TierChanged)
	if first.From != breakpoint.TierMD || first.To != breakpoint.TierLG {
		t.Errorf("first change = %v -> %v", first.From, first.To)
	}
	second := changes[1].Event.(TierChanged)
	if second.From != breakpoint.TierLG || second.To != breakpoint.TierXS {
		t.Errorf("second change = %v -> %v", second.From, second.To)
	}
}

func TestSidebar_AutoCollapsesBelowMinTier(t *testing.T) {
	s, _ := newTestShell(t, func(o *Options) {
		o.SidebarMinTier = breakpoint.TierMD
	})

	if sb := s.Compose().Region(RegionSidebar); !sb.Visible {
		t.Error("sidebar hidden at MD, want visible")
	}

	s.Resize(70, 40) // SM
	tree := s.Compose()
	if sb := tree.Region(RegionSidebar); sb.Visible {
		t.Error("sidebar visible at SM, want auto-collapsed")
	}
	if main := tree.Region(RegionMain); main.Bounds.X != 0 || main.Bounds.Width != 70 {
		t.Errorf("main did not reclaim sidebar space: %+v", main.Bounds)
	}
}

func TestSidebar_MinTierXSNeverAutoCollapses(t *testing.T) {
	s, _ := newTestShell(t, func(o *Options) {
		o.SidebarMinTier = breakpoint.TierXS
	})

	s.Resize(10, 40) // smallest tier
	if sb := s.Compose().Region(RegionSidebar); !sb.Visible {
		t.Error("sidebar hidden at xs; nothing sits below xs, so the rule never fires")
	}
}

func TestToggleSidebar_EmitsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	s, log := newTestShell(t, func(o *Options) {
		o.Store = layoutstore.NewStore(path)
	})

	s.ToggleSidebar()
	if !s.SidebarCollapsed() {
		t.Fatal("sidebar not collapsed after toggle")
	}
	toggles := log.ofType(func(e Event) bool {
		_, ok := e.(SidebarToggled)
		return ok
	})
	if len(toggles) != 1 || !toggles[0].Event.(SidebarToggled).Collapsed {
		t.Fatalf("toggle events = %+v", toggles)
	}

	// A fresh shell restores the flag from the store.
	s2, _ := newTestShell(t, func(o *Options) {
		o.Store = layoutstore.NewStore(path)
	})
	if !s2.SidebarCollapsed() {
		t.Error("collapsed flag not restored from persisted state")
	}
}

func TestPersistedRatio_ClampedOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	store := layoutstore.NewStore(path)
	if err := store.Save(layoutstore.State{SidebarSplitID: {Ratio: 1.4}}); err != nil {
		t.Fatal(err)
	}

	s, _ := newTestShell(t, func(o *Options) {
		o.Store = store
	})
	got := s.Split(SidebarSplitID).State().Ratio
	if !approx(got, 0.5) {
		t.Errorf("loaded ratio = %v, want clamped to max 0.5", got)
	}
}

func TestDividerDrag_CommitSettlesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	s, log := newTestShell(t, func(o *Options) {
		o.Width = 100
		o.Store = layoutstore.NewStore(path)
	})

	divider := s.Compose().Region(RegionSidebar).Bounds.Width // 22
	if !s.PointerPress(divider, 5) {
		t.Fatal("press on divider not consumed")
	}
	s.PointerPress(divider+10, 5) // drag-motion sample
	if got := s.Split(SidebarSplitID).State().Ratio; !approx(got, 0.32) {
		t.Errorf("mid-drag ratio = %v, want 0.32", got)
	}
	if !s.PointerRelease(divider+10, 5) {
		t.Fatal("release not consumed")
	}

	settles := log.ofType(func(e Event) bool {
		_, ok := e.(SplitRatioChanged)
		return ok
	})
	if len(settles) != 1 {
		t.Fatalf("got %d settle events, want 1", len(settles))
	}
	if got := settles[0].Event.(SplitRatioChanged).Ratio; !approx(got, 0.32) {
		t.Errorf("settled ratio = %v", got)
	}

	state, err := layoutstore.NewStore(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if !approx(state[SidebarSplitID].Ratio, 0.32) {
		t.Errorf("persisted ratio = %v, want 0.32", state[SidebarSplitID].Ratio)
	}
}

func TestDividerDrag_EscapeRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	store := layoutstore.NewStore(path)
	s, log := newTestShell(t, func(o *Options) {
		o.Width = 100
		o.Store = store
	})

	divider := s.Compose().Region(RegionSidebar).Bounds.Width
	s.PointerPress(divider, 5)
	s.PointerPress(divider+15, 5)
	if !s.Escape() {
		t.Fatal("escape during drag not consumed")
	}

	if got := s.Split(SidebarSplitID).State().Ratio; !approx(got, 0.22) {
		t.Errorf("ratio after cancel = %v, want rollback to 0.22", got)
	}
	if settles := log.ofType(func(e Event) bool {
		_, ok := e.(SplitRatioChanged)
		return ok
	}); len(settles) != 0 {
		t.Errorf("cancelled drag emitted %d settle events", len(settles))
	}
	if state, _ := store.Load(); len(state) != 0 {
		t.Errorf("cancelled drag persisted state: %+v", state)
	}
}

func TestFocusLost_CancelsDrag(t *testing.T) {
	s, _ := newTestShell(t, func(o *Options) { o.Width = 100 })

	divider := s.Compose().Region(RegionSidebar).Bounds.Width
	s.PointerPress(divider, 5)
	s.PointerPress(divider+20, 5)
	s.FocusLost()

	if got := s.Split(SidebarSplitID).State().Ratio; !approx(got, 0.22) {
		t.Errorf("ratio after focus loss = %v, want 0.22", got)
	}
	if s.Split(SidebarSplitID).Dragging() {
		t.Error("drag still active after focus loss")
	}
}

func TestDrawer_LightDismissThroughShell(t *testing.T) {
	s, log := newTestShell(t, func(o *Options) { o.LightDismiss = true })

	id, err := s.OpenDrawer("nav")
	if err != nil {
		t.Fatal(err)
	}
	tree := s.Compose() // assigns drawer bounds
	drawer := tree.Overlay(id)
	if drawer == nil {
		t.Fatal("drawer missing from composed tree")
	}

	// Inside: host routes it, shell does not consume.
	if s.PointerPress(drawer.Bounds.X+1, drawer.Bounds.Y+1) {
		t.Error("press inside drawer was consumed")
	}
	if s.Overlays().Get(id) == nil {
		t.Fatal("inside press dismissed the drawer")
	}

	// Outside: dismissed and consumed.
	if !s.PointerPress(0, drawer.Bounds.Y+1) {
		t.Error("outside press not consumed")
	}
	if s.Overlays().Get(id) != nil {
		t.Error("drawer still open after light dismiss")
	}
	closed := log.ofType(func(e Event) bool {
		c, ok := e.(OverlayClosed)
		return ok && c.ID == id
	})
	if len(closed) != 1 || closed[0].Event.(OverlayClosed).Reason != "light-dismiss" {
		t.Errorf("close events = %+v", closed)
	}
}

func TestCompose_DrawerFillsNarrowWindows(t *testing.T) {
	s, _ := newTestShell(t, nil)
	id, err := s.OpenDrawer("nav")
	if err != nil {
		t.Fatal(err)
	}

	drawer := s.Compose().Overlay(id)
	if drawer.Bounds.Width != 32 {
		t.Errorf("drawer width at md = %d, want fixed strip of 32", drawer.Bounds.Width)
	}

	s.Resize(50, 40) // xs
	drawer = s.Compose().Overlay(id)
	if drawer.Bounds.Width != 50 || drawer.Bounds.X != 0 {
		t.Errorf("drawer at xs = %+v, want full content width", drawer.Bounds)
	}
}

func TestBlockingModal_MakesEverythingBeneathInert(t *testing.T) {
	s, _ := newTestShell(t, func(o *Options) { o.Width = 100 })

	drawerID, _ := s.OpenDrawer("nav")
	modalID, err := s.OpenModal("confirm", true, true)
	if err != nil {
		t.Fatal(err)
	}

	tree := s.Compose()
	for _, r := range tree.Regions {
		if !r.Inert {
			t.Errorf("region %s interactive under blocking modal", r.ID)
		}
	}
	if !tree.Overlay(drawerID).Inert {
		t.Error("drawer interactive under blocking modal")
	}
	modal := tree.Overlay(modalID)
	if modal.Inert {
		t.Error("active modal marked inert")
	}
	if !modal.Backdrop || !approx(modal.BackdropOpacity, 0.8) {
		t.Errorf("modal backdrop = %v opacity %v", modal.Backdrop, modal.BackdropOpacity)
	}
	if tree.FocusScope != modalID {
		t.Errorf("focus scope = %q, want %q", tree.FocusScope, modalID)
	}

	// Divider press outside the modal: consumed by the modal, no drag.
	divider := tree.Region(RegionSidebar).Bounds.Width
	if !s.PointerPress(divider, tree.Overlay(modalID).Bounds.Y+tree.Overlay(modalID).Bounds.Height+2) {
		t.Error("press on inert base not consumed")
	}
	if s.Split(SidebarSplitID).Dragging() {
		t.Error("drag started under blocking modal")
	}
}

func TestEscape_ClosesTopNonToastOverlay(t *testing.T) {
	s, _ := newTestShell(t, nil)

	drawerID, _ := s.OpenDrawer("nav")
	toastID := s.ShowToast("saved", 0)

	if !s.Escape() {
		t.Fatal("escape not consumed with overlay open")
	}
	if s.Overlays().Get(drawerID) != nil {
		t.Error("drawer survived escape")
	}
	if s.Overlays().Get(toastID) == nil {
		t.Error("escape closed a toast")
	}
	if s.Escape() {
		t.Error("escape consumed with only toasts left")
	}
}

func TestCompose_ToastsStackDownward(t *testing.T) {
	s, _ := newTestShell(t, nil)
	first := s.ShowToast("one", 0)
	second := s.ShowToast("two", 0)

	tree := s.Compose()
	a, b := tree.Overlay(first), tree.Overlay(second)
	if b.Bounds.Y <= a.Bounds.Y {
		t.Errorf("second toast at y=%d, want below first at y=%d", b.Bounds.Y, a.Bounds.Y)
	}
	if a.Bounds.X != b.Bounds.X {
		t.Errorf("toasts not aligned: %d vs %d", a.Bounds.X, b.Bounds.X)
	}
}

func TestEnvelope_StampsShellIDAndTime(t *testing.T) {
	s, log := newTestShell(t, nil)
	s.ToggleSidebar()

	if len(log.envelopes) == 0 {
		t.Fatal("no events emitted")
	}
	env := log.envelopes[0]
	if env.Shell != s.ID() {
		t.Errorf("envelope shell = %v, want %v", env.Shell, s.ID())
	}
	if !env.Time.Equal(time.Unix(1000, 0)) {
		t.Errorf("envelope time = %v", env.Time)
	}
}

func TestToastTTL_ExpiresThroughShellTick(t *testing.T) {
	now := time.Unix(0, 0)
	s, log := newTestShell(t, func(o *Options) {
		o.Now = func() time.Time { return now }
	})

	id := s.ShowToast("saved", 3*time.Second)
	now = now.Add(2 * time.Second)
	s.Tick()
	if s.Overlays().Get(id) == nil {
		t.Fatal("toast expired early")
	}
	now = now.Add(2 * time.Second)
	s.Tick()
	s.Tick() // second tick past deadline must not double-fire
	if s.Overlays().Get(id) != nil {
		t.Fatal("toast not expired")
	}
	closed := log.ofType(func(e Event) bool {
		c, ok := e.(OverlayClosed)
		return ok && c.ID == id && c.Reason == "expired"
	})
	if len(closed) != 1 {
		t.Errorf("got %d expiry events, want exactly 1", len(closed))
	}
}

func TestSecondBlockingModal_Rejected(t *testing.T) {
	s, _ := newTestShell(t, nil)
	if _, err := s.OpenModal("first", true, true); err != nil {
		t.Fatal(err)
	}
	if _, err := s.OpenModal("second", true, true); err != overlay.ErrModalActive {
		t.Errorf("second blocking modal: err = %v, want ErrModalActive", err)
	}
}
