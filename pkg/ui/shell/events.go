package shell

import (
	"time"

	"github.com/google/uuid"

	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
	"github.com/odvcencio/shellkit/pkg/ui/overlay"
)

// Event is a discrete notification emitted to the host application.
type Event interface {
	isShellEvent()
}

// TierChanged fires when a resize crosses a breakpoint threshold.
type TierChanged struct {
	From breakpoint.Tier
	To   breakpoint.Tier
}

func (TierChanged) isShellEvent() {}

// OverlayOpened fires when a layer enters the stack.
type OverlayOpened struct {
	ID   string
	Kind overlay.Kind
}

func (OverlayOpened) isShellEvent() {}

// OverlayClosed fires when a layer leaves the stack.
type OverlayClosed struct {
	ID     string
	Kind   overlay.Kind
	Reason string
}

func (OverlayClosed) isShellEvent() {}

// SplitRatioChanged fires at drag-end with the committed ratio.
type SplitRatioChanged struct {
	ID    string
	Ratio float64
}

func (SplitRatioChanged) isShellEvent() {}

// SidebarToggled fires on the manual toggle command.
type SidebarToggled struct {
	Collapsed bool
}

func (SidebarToggled) isShellEvent() {}

// Diagnostic reports a non-fatal condition (e.g. pop of an unknown id).
type Diagnostic struct {
	Message string
}

func (Diagnostic) isShellEvent() {}

// Envelope stamps every emitted event with the shell instance and time.
type Envelope struct {
	Shell uuid.UUID
	Time  time.Time
	Event Event
}

// Dispatch receives shell events; the host reacts outside the core.
type Dispatch func(Envelope)
