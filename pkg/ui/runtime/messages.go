package runtime

import (
	"time"

	"github.com/odvcencio/shellkit/pkg/ui/terminal"
)

// Message represents an event flowing into the event loop.
// Messages come from terminal input, timers, or background goroutines.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key   terminal.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseMsg represents a mouse input event.
type MouseMsg struct {
	X, Y   int
	Button terminal.MouseButton
	Action terminal.MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseMsg) isMessage() {}

// PasteMsg represents pasted text from bracketed paste mode.
type PasteMsg struct {
	Text string
}

func (PasteMsg) isMessage() {}

// FocusMsg indicates the terminal gained or lost focus.
type FocusMsg struct {
	Focused bool
}

func (FocusMsg) isMessage() {}

// TickMsg is sent on each loop tick; it drives toast TTL expiry.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// FuncMsg runs a function on the loop goroutine. Background goroutines use
// it to mutate the shell safely; return true to request a render.
type FuncMsg struct {
	Fn func(app *App) bool
}

func (FuncMsg) isMessage() {}

// QuitMsg stops the event loop.
type QuitMsg struct{}

func (QuitMsg) isMessage() {}
