// Package split owns resizable-pane ratio state and drag-session arithmetic.
//
// Each pane is a small state machine: Idle -> Dragging -> Idle on pointer-up,
// or -> Cancelled on focus loss, target removal, or escape. Cancelled drags
// roll back to the pre-drag snapshot and never persist.
package split

import (
	"fmt"

	"github.com/odvcencio/shellkit/pkg/ui/geometry"
)

// Orientation is the axis a divider moves along.
type Orientation int

const (
	Horizontal Orientation = iota // divider moves left/right
	Vertical                      // divider moves up/down
)

// CancelReason says why a drag session was cancelled.
type CancelReason int

const (
	CancelFocusLost CancelReason = iota
	CancelTargetRemoved
	CancelEscape
)

// State is the persistent ratio state of one pane.
// MinRatio <= Ratio <= MaxRatio holds after every mutation.
type State struct {
	ID          string
	Ratio       float64
	MinRatio    float64
	MaxRatio    float64
	Orientation Orientation
	Locked      bool

	// Optional absolute pixel bounds for the first pane, applied on
	// container resize in addition to the ratio bounds. Zero means unset.
	MinPixels int
	MaxPixels int
}

type phase int

const (
	idle phase = iota
	dragging
)

// Controller runs the drag state machine for one pane.
type Controller struct {
	state    State
	phase    phase
	rollback float64 // pre-drag ratio snapshot
	startPos int     // pointer position at drag start, main axis
	extent   int     // container extent for the active session

	// onSettle fires once per committed drag (drag-end), never on
	// intermediate moves or cancellation.
	onSettle func(State)
}

// NewController validates and clamps the initial state.
func NewController(state State, onSettle func(State)) (*Controller, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("split: pane id is required")
	}
	if state.MinRatio < 0 || state.MaxRatio > 1 || state.MinRatio > state.MaxRatio {
		return nil, fmt.Errorf("split %s: invalid ratio bounds [%v, %v]", state.ID, state.MinRatio, state.MaxRatio)
	}
	state.Ratio = geometry.ClampFloat(state.Ratio, state.MinRatio, state.MaxRatio)
	return &Controller{state: state, onSettle: onSettle}, nil
}

// State returns a snapshot of the pane state.
func (c *Controller) State() State {
	return c.state
}

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool {
	return c.phase == dragging
}

// SetRatio applies a direct ratio mutation, clamped. Used when loading
// persisted geometry: out-of-range values degrade to the nearest bound.
func (c *Controller) SetRatio(ratio float64) {
	c.state.Ratio = geometry.ClampFloat(ratio, c.state.MinRatio, c.state.MaxRatio)
}

// DragStart opens a drag session. Locked panes ignore all drag input.
// Returns false if the drag did not start.
func (c *Controller) DragStart(pos, extent int) bool {
	if c.state.Locked || c.phase == dragging || extent <= 0 {
		return false
	}
	c.phase = dragging
	c.rollback = c.state.Ratio
	c.startPos = pos
	c.extent = extent
	return true
}

// DragMove recomputes the ratio from the pointer delta over the container
// extent and clamps it. Clamping is idempotent: deltas past the bounds
// observe the bound, not an accumulating error. Returns the observed ratio.
func (c *Controller) DragMove(pos int) float64 {
	if c.phase != dragging {
		return c.state.Ratio
	}
	delta := float64(pos-c.startPos) / float64(c.extent)
	c.state.Ratio = geometry.ClampFloat(c.rollback+delta, c.state.MinRatio, c.state.MaxRatio)
	return c.state.Ratio
}

// DragEnd commits the session and fires the settle callback once.
func (c *Controller) DragEnd() {
	if c.phase != dragging {
		return
	}
	c.phase = idle
	if c.onSettle != nil {
		c.onSettle(c.state)
	}
}

// Cancel aborts the session, restoring the pre-drag snapshot.
// No settle callback fires.
func (c *Controller) Cancel(reason CancelReason) {
	if c.phase != dragging {
		return
	}
	c.phase = idle
	c.state.Ratio = c.rollback
	_ = reason
}

// Resize re-derives pixel sizes for a new container extent. The ratio is
// preserved, then re-clamped against any absolute pixel constraints.
func (c *Controller) Resize(extent int) {
	if extent <= 0 {
		return
	}
	if c.phase == dragging {
		c.extent = extent
	}
	ratio := c.state.Ratio
	if c.state.MinPixels > 0 {
		minRatio := float64(c.state.MinPixels) / float64(extent)
		if ratio < minRatio {
			ratio = minRatio
		}
	}
	if c.state.MaxPixels > 0 {
		maxRatio := float64(c.state.MaxPixels) / float64(extent)
		if ratio > maxRatio {
			ratio = maxRatio
		}
	}
	c.state.Ratio = geometry.ClampFloat(ratio, c.state.MinRatio, c.state.MaxRatio)
}

// FirstExtent returns the first pane's size in cells for a container extent.
func (c *Controller) FirstExtent(extent int) int {
	return int(c.state.Ratio * float64(extent))
}

// Set is the collection of pane controllers owned by one shell.
type Set struct {
	panes []*Controller
	byID  map[string]*Controller
}

// NewSet creates an empty controller set.
func NewSet() *Set {
	return &Set{byID: make(map[string]*Controller)}
}

// Add registers a pane controller. Duplicate ids are a configuration error.
func (s *Set) Add(c *Controller) error {
	id := c.State().ID
	if _, exists := s.byID[id]; exists {
		return fmt.Errorf("split: duplicate pane id %q", id)
	}
	s.panes = append(s.panes, c)
	s.byID[id] = c
	return nil
}

// Get returns the controller for a pane id, or nil.
func (s *Set) Get(id string) *Controller {
	return s.byID[id]
}

// Remove drops a pane, cancelling any in-flight drag on it first.
func (s *Set) Remove(id string) {
	c, ok := s.byID[id]
	if !ok {
		return
	}
	c.Cancel(CancelTargetRemoved)
	delete(s.byID, id)
	for i, p := range s.panes {
		if p == c {
			s.panes = append(s.panes[:i], s.panes[i+1:]...)
			break
		}
	}
}

// CancelAll aborts every in-flight drag, e.g. on focus loss.
func (s *Set) CancelAll(reason CancelReason) {
	for _, c := range s.panes {
		c.Cancel(reason)
	}
}

// Each visits every controller in registration order.
func (s *Set) Each(fn func(*Controller)) {
	for _, c := range s.panes {
		fn(c)
	}
}
