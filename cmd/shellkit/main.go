// Command shellkit runs the demo application shell: responsive regions, a
// draggable sidebar divider, and the overlay stack, on a real terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/odvcencio/shellkit/pkg/config"
	"github.com/odvcencio/shellkit/pkg/telemetry"
	tcellbackend "github.com/odvcencio/shellkit/pkg/ui/backend/tcell"
	"github.com/odvcencio/shellkit/pkg/ui/layoutstore"
	"github.com/odvcencio/shellkit/pkg/ui/runtime"
	"github.com/odvcencio/shellkit/pkg/ui/shell"
	"github.com/odvcencio/shellkit/pkg/ui/terminal"
	"github.com/odvcencio/shellkit/pkg/ui/theme"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	configPath  string
	tracePath   string
	showVersion bool
)

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
	Bold(true)

func main() {
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&tracePath, "trace", "", "write OpenTelemetry spans to this file")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("shellkit %s (%s, built %s)\n", version, commit, buildDate)
		return
	}

	// Pin lipgloss to the detected profile so startup/error output
	// degrades cleanly on dumb terminals.
	lipgloss.SetColorProfile(termenv.ColorProfile())

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("shellkit: "+err.Error()))
		os.Exit(1)
	}
}

func run() error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	thresholds, err := cfg.Thresholds()
	if err != nil {
		return err
	}

	store := layoutstore.NewStore(cfg.Layout.StatePath)
	metrics := telemetry.New(prometheus.DefaultRegisterer)

	// Spans go to a file, never the terminal the shell draws on.
	var dispatch shell.Dispatch
	if tracePath != "" {
		traceFile, terr := os.Create(tracePath)
		if terr != nil {
			return fmt.Errorf("open trace file: %w", terr)
		}
		defer traceFile.Close()
		tp, terr := telemetry.NewTracerProvider(traceFile, "shellkit")
		if terr != nil {
			return terr
		}
		defer tp.Shutdown(context.Background())
		dispatch = telemetry.Trace(telemetry.Tracer(), nil)
	}

	sh, err := shell.New(shell.Options{
		Thresholds:      thresholds,
		SidebarMinTier:  cfg.SidebarMinTier(),
		Theme:           theme.DefaultTheme(),
		Store:           store,
		SidebarRatio:    cfg.Sidebar.Ratio,
		SidebarMinRatio: cfg.Sidebar.MinRatio,
		SidebarMaxRatio: cfg.Sidebar.MaxRatio,
		StackableModals: cfg.Overlays.StackableModals,
		LightDismiss:    cfg.Overlays.LightDismiss,
		MaxToasts:       cfg.Overlays.MaxToasts,
		Dispatch:        metrics.Observe(dispatch),
	})
	if err != nil {
		return err
	}
	sh.SetRegionContent(shell.RegionMain, "Welcome. This window recomposes as you resize it.")

	be, err := tcellbackend.New()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}

	app := runtime.NewApp(runtime.Config{
		Backend:  be,
		Shell:    sh,
		Renderer: &demoRenderer{theme: theme.DefaultTheme()},
		Keys:     handleKeys(cfg),
		TickRate: cfg.TickRate.Std(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Out-of-band edits to the persisted layout reload live. The handler
	// runs on the watcher goroutine, so the mutation is forwarded into
	// the loop.
	if cfg.Layout.WatchState {
		watcher, werr := layoutstore.Watch(store, func(state layoutstore.State) {
			app.Post(runtime.FuncMsg{Fn: func(app *runtime.App) bool {
				app.Shell().ReloadPersisted(state)
				return true
			}})
		})
		if werr == nil {
			defer watcher.Close()
		}
	}

	err = app.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

func handleKeys(cfg *config.Config) runtime.KeyHandler {
	return func(app *runtime.App, msg runtime.KeyMsg) bool {
		sh := app.Shell()
		switch {
		case msg.Key == terminal.KeyCtrlC:
			app.Quit()
			return false
		case msg.Key == terminal.KeyRune && msg.Rune == 'q':
			app.Quit()
			return false
		case msg.Key == terminal.KeyRune && msg.Rune == 'b':
			sh.ToggleSidebar()
			return true
		case msg.Key == terminal.KeyRune && msg.Rune == 'd':
			_, err := sh.OpenDrawer("Drawer: recent files")
			return err == nil
		case msg.Key == terminal.KeyRune && msg.Rune == 'm':
			if _, err := sh.OpenModal("Confirm? Press esc to dismiss.", true, true); err != nil {
				sh.ShowToast("a modal is already open", cfg.Overlays.ToastTTL.Std())
			}
			return true
		case msg.Key == terminal.KeyRune && msg.Rune == 't':
			sh.ShowToast(fmt.Sprintf("toast at %s", time.Now().Format("15:04:05")), cfg.Overlays.ToastTTL.Std())
			return true
		default:
			return false
		}
	}
}
