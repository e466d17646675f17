// Package runtime runs the shell event loop against a terminal backend:
// it polls input, routes it to the shell, and flushes composed frames.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/odvcencio/shellkit/pkg/ui/backend"
	"github.com/odvcencio/shellkit/pkg/ui/shell"
	"github.com/odvcencio/shellkit/pkg/ui/terminal"
)

// Renderer paints a composed tree into the cell buffer.
type Renderer interface {
	Render(tree *shell.Tree, buf *Buffer)
}

// KeyHandler handles keys the shell did not consume.
// Return true if a render is needed.
type KeyHandler func(app *App, msg KeyMsg) bool

// MouseHandler handles mouse input the shell did not consume.
type MouseHandler func(app *App, msg MouseMsg) bool

// Config configures a runtime App.
type Config struct {
	Backend       backend.Backend
	Shell         *shell.Shell
	Renderer      Renderer
	Keys          KeyHandler
	Mouse         MouseHandler
	MessageBuffer int
	TickRate      time.Duration
}

// App owns the event loop: one goroutine polls the backend, the loop
// goroutine applies messages to the shell and renders. All shell mutations
// happen on the loop goroutine.
type App struct {
	backend  backend.Backend
	shell    *shell.Shell
	renderer Renderer
	keys     KeyHandler
	mouse    MouseHandler
	messages chan Message
	tickRate time.Duration

	buffer   *Buffer
	running  bool
	dirty    bool
	renderMu sync.Mutex
}

// NewApp creates a new App from config.
func NewApp(cfg Config) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 250 * time.Millisecond
	}
	return &App{
		backend:  cfg.Backend,
		shell:    cfg.Shell,
		renderer: cfg.Renderer,
		keys:     cfg.Keys,
		mouse:    cfg.Mouse,
		messages: make(chan Message, bufferSize),
		tickRate: tickRate,
	}
}

// Shell returns the shell driven by this app.
func (a *App) Shell() *shell.Shell {
	return a.shell
}

// Buffer returns the active cell buffer, nil before Run.
func (a *App) Buffer() *Buffer {
	return a.buffer
}

// Post sends a message to the event loop. Never blocks; messages posted
// against a full queue are dropped.
func (a *App) Post(msg Message) {
	select {
	case a.messages <- msg:
	default:
	}
}

// Quit stops the event loop after the current message.
func (a *App) Quit() {
	a.Post(QuitMsg{})
}

// Run starts the event loop until quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("backend is required")
	}
	if a.shell == nil {
		return errors.New("shell is required")
	}
	if a.renderer == nil {
		return errors.New("renderer is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.buffer = NewBuffer(w, h)
	a.shell.Resize(w, h)

	a.running = true
	a.dirty = true

	go a.pollEvents()

	ticker := time.NewTicker(a.tickRate)
	defer ticker.Stop()

	for a.running {
		select {
		case <-ctx.Done():
			a.running = false
		case msg := <-a.messages:
			if a.handleMessage(msg) {
				a.dirty = true
			}
		case now := <-ticker.C:
			if a.handleMessage(TickMsg{Time: now}) {
				a.dirty = true
			}
		}

		if a.dirty {
			a.render()
			a.dirty = false
		}
	}

	return ctx.Err()
}

func (a *App) handleMessage(msg Message) bool {
	switch m := msg.(type) {
	case QuitMsg:
		a.running = false
		return false

	case ResizeMsg:
		a.shell.Resize(m.Width, m.Height)
		a.buffer.Resize(m.Width, m.Height)
		return true

	case KeyMsg:
		if m.Key == terminal.KeyEscape && a.shell.Escape() {
			return true
		}
		if a.keys != nil {
			return a.keys(a, m)
		}
		return false

	case MouseMsg:
		switch m.Action {
		case terminal.MousePress:
			if a.shell.PointerPress(m.X, m.Y) {
				return true
			}
		case terminal.MouseRelease:
			if a.shell.PointerRelease(m.X, m.Y) {
				return true
			}
		}
		if a.mouse != nil {
			return a.mouse(a, m)
		}
		return false

	case FocusMsg:
		if !m.Focused {
			a.shell.FocusLost()
			return true
		}
		return false

	case FuncMsg:
		if m.Fn != nil {
			return m.Fn(a)
		}
		return false

	case TickMsg:
		before := a.shell.Overlays().Len()
		a.shell.Tick()
		return a.shell.Overlays().Len() != before

	default:
		return false
	}
}

func (a *App) pollEvents() {
	for a.running {
		ev := a.backend.PollEvent()
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case terminal.KeyEvent:
			a.Post(KeyMsg{
				Key:   e.Key,
				Rune:  e.Rune,
				Alt:   e.Alt,
				Ctrl:  e.Ctrl,
				Shift: e.Shift,
			})
		case terminal.ResizeEvent:
			a.Post(ResizeMsg{Width: e.Width, Height: e.Height})
		case terminal.MouseEvent:
			a.Post(MouseMsg{
				X:      e.X,
				Y:      e.Y,
				Button: e.Button,
				Action: e.Action,
				Alt:    e.Alt,
				Ctrl:   e.Ctrl,
				Shift:  e.Shift,
			})
		case terminal.PasteEvent:
			a.Post(PasteMsg{Text: e.Text})
		case terminal.FocusEvent:
			a.Post(FocusMsg{Focused: e.Focused})
		}
	}
}

func (a *App) render() {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()

	if a.buffer == nil {
		return
	}

	tree := a.shell.Compose()
	a.renderer.Render(tree, a.buffer)

	buf := a.buffer
	if buf.IsDirty() {
		buf.ForEachDirtyCell(func(x, y int, cell Cell) {
			a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
		})
		buf.ClearDirty()
	}
	a.backend.Show()
}
