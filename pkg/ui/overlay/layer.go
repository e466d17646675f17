// Package overlay owns the layered overlay set: z-ordering, focus traps,
// inertness under blocking modals, light dismiss, and toast expiry.
//
// Kind brackets order layers regardless of insertion order: base content <
// chrome < drawers/popovers < modals < toasts. Within a bracket, a monotonic
// sequence counter orders layers by push time.
package overlay

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/shellkit/pkg/ui/geometry"
)

// Kind classifies an overlay layer.
type Kind int

const (
	KindChrome Kind = iota
	KindDrawer
	KindPopover
	KindModal
	KindToast
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindChrome:
		return "chrome"
	case KindDrawer:
		return "drawer"
	case KindPopover:
		return "popover"
	case KindModal:
		return "modal"
	case KindToast:
		return "toast"
	default:
		return "unknown"
	}
}

// Rank returns the z-order bracket for the kind. Drawers and popovers
// share a bracket. Base content is rank -1 and never enters the stack.
func (k Kind) Rank() int {
	switch k {
	case KindChrome:
		return 0
	case KindDrawer, KindPopover:
		return 1
	case KindModal:
		return 2
	case KindToast:
		return 3
	default:
		return 0
	}
}

// RankWidth is the z-index span of one kind bracket. A bracket can hold
// this many pushes before sequences would collide with the next bracket,
// which is far beyond any realistic session.
const RankWidth = 1 << 20

// Layer is one entry in the overlay stack.
type Layer struct {
	ID           string
	Kind         Kind
	Blocking     bool
	FocusTrap    bool
	LightDismiss bool
	TTL          time.Duration
	Bounds       geometry.Rect

	// Opaque payload handed back to the host renderer.
	Content any

	sequence uint64
	zIndex   int
	deadline time.Time
	expired  bool
}

// ZIndex returns the layer's effective z-order value.
func (l *Layer) ZIndex() int {
	return l.zIndex
}

// Sequence returns the stack-scoped monotonic push counter.
func (l *Layer) Sequence() uint64 {
	return l.sequence
}

// Deadline returns the TTL expiry time, zero if the layer has no TTL.
func (l *Layer) Deadline() time.Time {
	return l.deadline
}

func newLayerID() string {
	return ulid.Make().String()
}
