package overlay

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrModalActive reports a rejected push: a blocking modal is already
// active and the stack is not configured as stackable. Recoverable; the
// caller decides whether to queue or drop.
var ErrModalActive = errors.New("blocked by active modal")

// EventType classifies stack notifications.
type EventType int

const (
	EventOpened EventType = iota
	EventClosed
	EventDiagnostic
)

// Event is a stack notification delivered to the shell.
type Event struct {
	Type   EventType
	ID     string
	Kind   Kind
	Reason string
}

// Config tunes stack behavior.
type Config struct {
	// StackableModals permits nested blocking modals; the innermost
	// focus-trapping modal owns the trap.
	StackableModals bool

	// MaxToasts evicts the oldest toast when exceeded. <= 0 uses the default.
	MaxToasts int

	// Now supplies the monotonic-ish clock for toast TTLs. Defaults to
	// time.Now; tests inject a fake.
	Now func() time.Time

	// Notify receives opened/closed/diagnostic events. May push or pop
	// re-entrantly; such mutations queue behind the one in flight.
	Notify func(Event)
}

// DefaultMaxToasts bounds simultaneously visible toasts.
const DefaultMaxToasts = 5

type opKind int

const (
	opPush opKind = iota
	opPop
	opFront
)

type op struct {
	kind   opKind
	layer  *Layer
	id     string
	reason string
}

// Stack is the overlay stack manager. All mutations flow through a single
// ordered command queue: operations arriving in the same logical tick are
// applied in arrival order, so z-order and the focus-scope stack stay
// consistent under re-entrant triggers.
type Stack struct {
	cfg    Config
	layers map[string]*Layer
	seq    uint64

	// focus is the LIFO stack of focus-trap owners; the top entry is the
	// currently trapped scope, empty means base content owns focus.
	focus []string

	queue    []op
	draining bool
}

// NewStack creates an empty overlay stack.
func NewStack(cfg Config) *Stack {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxToasts <= 0 {
		cfg.MaxToasts = DefaultMaxToasts
	}
	return &Stack{
		cfg:    cfg,
		layers: make(map[string]*Layer),
	}
}

// Len returns the number of layers in the stack.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Push adds a layer and returns its id. A blocking modal is rejected with
// ErrModalActive while another blocking modal is active, unless the stack
// is configured stackable. The check covers queued pushes too: two modal
// pushes arriving in the same drain must observe each other, not just the
// applied layers.
func (s *Stack) Push(layer Layer) (string, error) {
	if layer.Kind == KindModal && layer.Blocking && !s.cfg.StackableModals {
		if s.activeBlockingModal() != nil || s.queuedBlockingModal() {
			return "", ErrModalActive
		}
	}
	if layer.ID == "" {
		layer.ID = newLayerID()
	}
	if _, exists := s.layers[layer.ID]; exists {
		return "", fmt.Errorf("overlay: duplicate layer id %q", layer.ID)
	}
	l := layer
	s.enqueue(op{kind: opPush, layer: &l})
	return l.ID, nil
}

// PushToast is shorthand for a non-blocking, non-trapping toast layer.
func (s *Stack) PushToast(content any, ttl time.Duration) string {
	id, _ := s.Push(Layer{
		Kind:    KindToast,
		TTL:     ttl,
		Content: content,
	})
	return id
}

// Pop removes a layer by id. Popping an unknown id is a no-op reported as
// a diagnostic event; popping twice is safe.
func (s *Stack) Pop(id string) {
	s.enqueue(op{kind: opPop, id: id, reason: "closed"})
}

// BringToFront re-sequences a layer within its own kind bracket. It can
// never cross brackets: a brought-forward drawer still renders below any
// modal.
func (s *Stack) BringToFront(id string) {
	s.enqueue(op{kind: opFront, id: id})
}

// Tick checks toast TTLs against the clock and enqueues exactly one pop
// per expired toast. The expired mark prevents double-fire when the tick
// re-enters before the pop is processed.
func (s *Stack) Tick() {
	now := s.cfg.Now()
	for _, l := range s.ordered() {
		if l.Kind != KindToast || l.TTL <= 0 || l.expired {
			continue
		}
		if !now.Before(l.deadline) {
			l.expired = true
			s.enqueue(op{kind: opPop, id: l.ID, reason: "expired"})
		}
	}
}

// Get returns the layer with the given id, or nil.
func (s *Stack) Get(id string) *Layer {
	return s.layers[id]
}

// Layers returns the layers ordered bottom to top by effective z-order.
func (s *Stack) Layers() []*Layer {
	return s.ordered()
}

// ActiveFocusScope returns the id of the layer owning the focus trap,
// or "" when base content owns focus. With nested stackable modals the
// innermost trap wins (LIFO).
func (s *Stack) ActiveFocusScope() string {
	if len(s.focus) == 0 {
		return ""
	}
	return s.focus[len(s.focus)-1]
}

// Inert reports whether the given layer is rendered but non-interactive,
// i.e. an active blocking modal sits above it.
func (s *Stack) Inert(id string) bool {
	l, ok := s.layers[id]
	if !ok {
		return false
	}
	top := s.activeBlockingModal()
	return top != nil && top.zIndex > l.zIndex
}

// BaseInert reports whether base content is inert (any blocking modal).
func (s *Stack) BaseInert() bool {
	return s.activeBlockingModal() != nil
}

// HandlePointerPress routes a pointer press at (x, y) through the stack.
// It returns true if the stack consumed the event (so it must not reach
// base content or lower layers).
//
// Topmost interactive layer decides: a light-dismiss drawer/popover pops
// itself on a press strictly outside its bounds and consumes the event; a
// blocking modal consumes outside presses without popping; everything else
// lets the event through.
func (s *Stack) HandlePointerPress(x, y int) bool {
	ordered := s.ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		l := ordered[i]
		if l.Kind == KindToast {
			continue // toasts never block or capture
		}
		if l.Bounds.Contains(x, y) {
			// Press lands on this layer; the host delivers it there.
			return false
		}
		switch l.Kind {
		case KindDrawer, KindPopover:
			if l.LightDismiss {
				s.enqueue(op{kind: opPop, id: l.ID, reason: "light-dismiss"})
				return true
			}
			// Non-dismissing drawers don't block outside presses.
			continue
		case KindModal:
			if l.Blocking {
				return true // everything beneath is inert
			}
			continue
		default:
			continue
		}
	}
	return false
}

// enqueue appends a mutation and drains the queue unless a drain is
// already in flight (re-entrant call from a Notify callback), in which
// case the outer drain picks it up in arrival order.
func (s *Stack) enqueue(o op) {
	s.queue = append(s.queue, o)
	if s.draining {
		return
	}
	s.draining = true
	defer func() { s.draining = false }()
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.apply(next)
	}
}

func (s *Stack) apply(o op) {
	switch o.kind {
	case opPush:
		s.applyPush(o.layer)
	case opPop:
		s.applyPop(o.id, o.reason)
	case opFront:
		s.applyFront(o.id)
	}
}

func (s *Stack) applyPush(l *Layer) {
	s.seq++
	l.sequence = s.seq
	l.zIndex = l.Kind.Rank()*RankWidth + int(l.sequence)
	if l.Kind == KindToast && l.TTL > 0 {
		l.deadline = s.cfg.Now().Add(l.TTL)
	}
	s.layers[l.ID] = l

	if l.FocusTrap {
		s.focus = append(s.focus, l.ID)
	}
	s.notify(Event{Type: EventOpened, ID: l.ID, Kind: l.Kind})

	// Oldest toast is evicted once the cap is exceeded.
	if l.Kind == KindToast {
		s.evictToasts()
	}
}

func (s *Stack) applyPop(id, reason string) {
	l, ok := s.layers[id]
	if !ok {
		s.notify(Event{
			Type:   EventDiagnostic,
			ID:     id,
			Reason: "pop of unknown layer id",
		})
		return
	}
	delete(s.layers, id)

	// Restore the prior focus scope (LIFO). The popped layer is removed
	// wherever it sits so nested stackable modals stay consistent even
	// when an outer modal closes first.
	for i := len(s.focus) - 1; i >= 0; i-- {
		if s.focus[i] == id {
			s.focus = append(s.focus[:i], s.focus[i+1:]...)
			break
		}
	}

	s.notify(Event{Type: EventClosed, ID: id, Kind: l.Kind, Reason: reason})
}

func (s *Stack) applyFront(id string) {
	l, ok := s.layers[id]
	if !ok {
		s.notify(Event{
			Type:   EventDiagnostic,
			ID:     id,
			Reason: "bring-to-front of unknown layer id",
		})
		return
	}
	// New sequence, same bracket: rises above same-kind siblings only.
	s.seq++
	l.sequence = s.seq
	l.zIndex = l.Kind.Rank()*RankWidth + int(l.sequence)
}

func (s *Stack) evictToasts() {
	toasts := make([]*Layer, 0, 4)
	for _, l := range s.ordered() {
		if l.Kind == KindToast {
			toasts = append(toasts, l)
		}
	}
	for overflow := len(toasts) - s.cfg.MaxToasts; overflow > 0; overflow-- {
		oldest := toasts[0]
		toasts = toasts[1:]
		s.enqueue(op{kind: opPop, id: oldest.ID, reason: "evicted"})
	}
}

// queuedBlockingModal reports whether an accepted but not yet applied
// push carries a blocking modal.
func (s *Stack) queuedBlockingModal() bool {
	for _, o := range s.queue {
		if o.kind == opPush && o.layer.Kind == KindModal && o.layer.Blocking {
			return true
		}
	}
	return false
}

func (s *Stack) activeBlockingModal() *Layer {
	var top *Layer
	for _, l := range s.layers {
		if l.Kind != KindModal || !l.Blocking {
			continue
		}
		if top == nil || l.zIndex > top.zIndex {
			top = l
		}
	}
	return top
}

func (s *Stack) ordered() []*Layer {
	out := make([]*Layer, 0, len(s.layers))
	for _, l := range s.layers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].zIndex < out[j].zIndex })
	return out
}

func (s *Stack) notify(ev Event) {
	if s.cfg.Notify != nil {
		s.cfg.Notify(ev)
	}
}
