// Package shell composes a single-window application out of layout regions
// (header, sidebar, main, status) and a layered overlay stack.
//
// The composer is a pure projection: the composed tree is recomputed from
// the current tier, split states, overlay stack, and persisted geometry on
// every relayout-triggering event, and holds no derived state of its own.
package shell

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
	"github.com/odvcencio/shellkit/pkg/ui/geometry"
	"github.com/odvcencio/shellkit/pkg/ui/layoutstore"
	"github.com/odvcencio/shellkit/pkg/ui/overlay"
	"github.com/odvcencio/shellkit/pkg/ui/responsive"
	"github.com/odvcencio/shellkit/pkg/ui/split"
	"github.com/odvcencio/shellkit/pkg/ui/theme"
)

// SidebarSplitID keys the sidebar/main divider in split and persisted state.
const SidebarSplitID = "sidebar"

// Options configures a shell instance.
type Options struct {
	// Thresholds is the breakpoint table; nil uses breakpoint.Standard().
	Thresholds []breakpoint.Threshold

	// Rules are per-region visibility rules evaluated on every relayout.
	Rules []responsive.Rule

	// SidebarMinTier auto-collapses the sidebar below this tier. It is
	// expressed as a responsive rule, not a special case. TierXS (the
	// zero value) disables auto-collapse: no tier sits below xs, so a
	// Min(xs) rule could never hide anything.
	SidebarMinTier breakpoint.Tier

	// Theme supplies tokens and the palette. Nil uses DefaultTheme.
	Theme *theme.Theme

	// Store persists pane geometry. Nil disables persistence.
	Store *layoutstore.Store

	// Sidebar ratio bounds; zero values use defaults.
	SidebarRatio    float64
	SidebarMinRatio float64
	SidebarMaxRatio float64

	// StackableModals permits nested blocking modals.
	StackableModals bool

	// LightDismiss is the default for drawers and popovers.
	LightDismiss bool

	MaxToasts int
	Now       func() time.Time

	// Dispatch receives host events. Nil drops them.
	Dispatch Dispatch

	// Initial window size.
	Width, Height int
}

// Shell is the top-level orchestrator. It owns the split controllers and
// the overlay stack for its lifetime; all mutations run on the event loop
// goroutine.
type Shell struct {
	id       uuid.UUID
	resolver *breakpoint.Resolver
	rules    []responsive.Rule
	theme    *theme.Theme
	store    *layoutstore.Store
	splits   *split.Set
	overlays *overlay.Stack
	dispatch Dispatch
	now      func() time.Time

	lightDismiss bool

	width, height int
	tier          breakpoint.Tier
	collapsed     bool
	content       map[RegionID]any

	dragging bool // sidebar divider drag in flight
}

// New constructs a shell. Malformed breakpoint configuration fails here;
// corrupted persisted geometry degrades to clamped values instead.
func New(opts Options) (*Shell, error) {
	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = breakpoint.Standard()
	}
	resolver, err := breakpoint.NewResolver(thresholds)
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}

	th := opts.Theme
	if th == nil {
		th = theme.DefaultTheme()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Shell{
		id:           uuid.New(),
		resolver:     resolver,
		theme:        th,
		store:        opts.Store,
		splits:       split.NewSet(),
		dispatch:     opts.Dispatch,
		now:          now,
		lightDismiss: opts.LightDismiss,
		width:        opts.Width,
		height:       opts.Height,
		content:      make(map[RegionID]any),
	}
	s.tier = resolver.Resolve(s.width)

	s.rules = append(s.rules, opts.Rules...)
	if opts.SidebarMinTier > breakpoint.TierXS {
		s.rules = append(s.rules, responsive.Show(string(RegionSidebar)).Min(opts.SidebarMinTier))
	}

	s.overlays = overlay.NewStack(overlay.Config{
		StackableModals: opts.StackableModals,
		MaxToasts:       opts.MaxToasts,
		Now:             now,
		Notify:          s.onOverlayEvent,
	})

	ratio := opts.SidebarRatio
	if ratio == 0 {
		ratio = 0.22
	}
	minRatio := opts.SidebarMinRatio
	if minRatio == 0 {
		minRatio = 0.12
	}
	maxRatio := opts.SidebarMaxRatio
	if maxRatio == 0 {
		maxRatio = 0.5
	}
	sidebar, err := split.NewController(split.State{
		ID:          SidebarSplitID,
		Ratio:       ratio,
		MinRatio:    minRatio,
		MaxRatio:    maxRatio,
		Orientation: split.Horizontal,
	}, s.onSplitSettle)
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	if err := s.splits.Add(sidebar); err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}

	if s.store != nil {
		state, err := s.store.Load()
		if err != nil {
			s.emit(Diagnostic{Message: fmt.Sprintf("persisted layout unreadable, using defaults: %v", err)})
		} else {
			s.applyPersisted(state)
		}
	}

	return s, nil
}

// ID returns the shell instance id stamped on emitted events.
func (s *Shell) ID() uuid.UUID {
	return s.id
}

// Tier returns the current breakpoint tier.
func (s *Shell) Tier() breakpoint.Tier {
	return s.tier
}

// SidebarCollapsed reports the manual collapse flag.
func (s *Shell) SidebarCollapsed() bool {
	return s.collapsed
}

// Overlays exposes the overlay stack for inspection.
func (s *Shell) Overlays() *overlay.Stack {
	return s.overlays
}

// Split returns the controller for a pane id, or nil.
func (s *Shell) Split(id string) *split.Controller {
	return s.splits.Get(id)
}

// AddSplit registers an additional resizable pane owned by host content.
// Persisted geometry for the pane, if any, is applied clamped.
func (s *Shell) AddSplit(state split.State) error {
	c, err := split.NewController(state, s.onSplitSettle)
	if err != nil {
		return err
	}
	if err := s.splits.Add(c); err != nil {
		return err
	}
	if s.store != nil {
		if persisted, err := s.store.Load(); err == nil {
			if entry, ok := persisted[state.ID]; ok {
				c.SetRatio(layoutstore.ClampRatio(entry.Ratio, state.MinRatio, state.MaxRatio))
			}
		}
	}
	return nil
}

// SetRegionContent attaches an opaque payload rendered by the host.
func (s *Shell) SetRegionContent(id RegionID, content any) {
	s.content[id] = content
}

// Resize updates the window size and re-resolves the tier.
func (s *Shell) Resize(width, height int) {
	s.width = width
	s.height = height
	prev := s.tier
	s.tier = s.resolver.Resolve(width)
	s.splits.Each(func(c *split.Controller) {
		c.Resize(width)
	})
	if s.tier != prev {
		s.emit(TierChanged{From: prev, To: s.tier})
	}
}

// ToggleSidebar flips the manual collapse flag. The resulting state is a
// settle point and persists immediately.
func (s *Shell) ToggleSidebar() {
	s.collapsed = !s.collapsed
	s.emit(SidebarToggled{Collapsed: s.collapsed})
	s.settle()
}

// OpenDrawer pushes a drawer layer with the configured light-dismiss default.
func (s *Shell) OpenDrawer(content any) (string, error) {
	return s.overlays.Push(overlay.Layer{
		Kind:         overlay.KindDrawer,
		LightDismiss: s.lightDismiss,
		Content:      content,
	})
}

// OpenPopover pushes a popover anchored at the given bounds.
func (s *Shell) OpenPopover(content any, bounds geometry.Rect) (string, error) {
	return s.overlays.Push(overlay.Layer{
		Kind:         overlay.KindPopover,
		LightDismiss: s.lightDismiss,
		Bounds:       bounds,
		Content:      content,
	})
}

// OpenModal pushes a modal. Blocking modals mark everything beneath them
// inert; a second blocking modal is rejected unless stacking is configured.
func (s *Shell) OpenModal(content any, blocking, focusTrap bool) (string, error) {
	return s.overlays.Push(overlay.Layer{
		Kind:      overlay.KindModal,
		Blocking:  blocking,
		FocusTrap: focusTrap,
		Content:   content,
	})
}

// ShowToast pushes a toast with the given TTL (zero = sticky).
func (s *Shell) ShowToast(content any, ttl time.Duration) string {
	return s.overlays.PushToast(content, ttl)
}

// CloseOverlay pops a layer; unknown ids are a no-op diagnostic.
func (s *Shell) CloseOverlay(id string) {
	s.overlays.Pop(id)
}

// Tick drives toast TTL expiry; the runtime calls it once per loop tick.
func (s *Shell) Tick() {
	s.overlays.Tick()
}

// PointerPress handles a pointer press or drag-motion sample at (x, y).
// Returns true if the shell consumed the event.
func (s *Shell) PointerPress(x, y int) bool {
	if s.dragging {
		s.splits.Get(SidebarSplitID).DragMove(x)
		return true
	}
	if s.overlays.HandlePointerPress(x, y) {
		return true
	}
	if s.overlays.BaseInert() {
		// The press landed inside an overlay; the host routes it there.
		// Base content (divider included) is inert under a blocking modal.
		return false
	}
	if s.onSidebarDivider(x, y) {
		if s.splits.Get(SidebarSplitID).DragStart(x, s.width) {
			s.dragging = true
			return true
		}
	}
	return false
}

// PointerRelease ends an in-flight divider drag (settle point).
func (s *Shell) PointerRelease(x, y int) bool {
	if !s.dragging {
		return false
	}
	s.dragging = false
	s.splits.Get(SidebarSplitID).DragEnd()
	return true
}

// Escape cancels an in-flight drag, else closes the top non-toast overlay.
// Returns true if consumed.
func (s *Shell) Escape() bool {
	if s.dragging {
		s.dragging = false
		s.splits.Get(SidebarSplitID).Cancel(split.CancelEscape)
		return true
	}
	layers := s.overlays.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].Kind != overlay.KindToast {
			s.overlays.Pop(layers[i].ID)
			return true
		}
	}
	return false
}

// FocusLost cancels all in-flight drags; canceled drags roll back.
func (s *Shell) FocusLost() {
	s.dragging = false
	s.splits.CancelAll(split.CancelFocusLost)
}

// ReloadPersisted replaces geometry from an out-of-band state reload.
func (s *Shell) ReloadPersisted(state layoutstore.State) {
	s.applyPersisted(state)
}

func (s *Shell) applyPersisted(state layoutstore.State) {
	s.splits.Each(func(c *split.Controller) {
		if entry, ok := state[c.State().ID]; ok {
			st := c.State()
			c.SetRatio(layoutstore.ClampRatio(entry.Ratio, st.MinRatio, st.MaxRatio))
		}
	})
	if entry, ok := state[SidebarSplitID]; ok {
		s.collapsed = entry.Collapsed
	}
}

// settle writes persisted state once. Called at settle points only:
// drag-end, overlay close, manual toggle.
func (s *Shell) settle() {
	if s.store == nil {
		return
	}
	state := layoutstore.State{}
	s.splits.Each(func(c *split.Controller) {
		st := c.State()
		state[st.ID] = layoutstore.Entry{
			Ratio:     st.Ratio,
			Collapsed: st.ID == SidebarSplitID && s.collapsed,
		}
	})
	if err := s.store.Save(state); err != nil {
		s.emit(Diagnostic{Message: fmt.Sprintf("persist layout: %v", err)})
	}
}

func (s *Shell) onSplitSettle(st split.State) {
	s.emit(SplitRatioChanged{ID: st.ID, Ratio: st.Ratio})
	s.settle()
}

func (s *Shell) onOverlayEvent(ev overlay.Event) {
	switch ev.Type {
	case overlay.EventOpened:
		s.emit(OverlayOpened{ID: ev.ID, Kind: ev.Kind})
	case overlay.EventClosed:
		s.emit(OverlayClosed{ID: ev.ID, Kind: ev.Kind, Reason: ev.Reason})
		s.settle()
	case overlay.EventDiagnostic:
		s.emit(Diagnostic{Message: fmt.Sprintf("overlay %s: %s", ev.ID, ev.Reason)})
	}
}

func (s *Shell) emit(ev Event) {
	if s.dispatch == nil {
		return
	}
	s.dispatch(Envelope{Shell: s.id, Time: s.now(), Event: ev})
}

// onSidebarDivider reports whether (x, y) grabs the sidebar divider.
func (s *Shell) onSidebarDivider(x, y int) bool {
	tree := s.Compose()
	sidebar := tree.Region(RegionSidebar)
	if sidebar == nil || !sidebar.Visible {
		return false
	}
	divider := sidebar.Bounds.X + sidebar.Bounds.Width
	if x != divider && x != divider-1 {
		return false
	}
	return y >= sidebar.Bounds.Y && y < sidebar.Bounds.Y+sidebar.Bounds.Height
}
