// Package telemetry records shell activity as Prometheus metrics. It hooks
// into the shell's event dispatch, so the core stays free of metric calls.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/shellkit/pkg/ui/shell"
)

// Metrics holds the shell metric set.
type Metrics struct {
	overlaysOpened *prometheus.CounterVec
	overlaysClosed *prometheus.CounterVec
	overlaysActive prometheus.Gauge
	tierChanges    prometheus.Counter
	splitSettles   prometheus.Counter
	sidebarToggles prometheus.Counter
	diagnostics    prometheus.Counter
}

// New registers the metric set with the given registerer. Pass
// prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		overlaysOpened: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shellkit",
			Name:      "overlays_opened_total",
			Help:      "Overlay layers pushed, by kind.",
		}, []string{"kind"}),
		overlaysClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shellkit",
			Name:      "overlays_closed_total",
			Help:      "Overlay layers popped, by kind and close reason.",
		}, []string{"kind", "reason"}),
		overlaysActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "shellkit",
			Name:      "overlays_active",
			Help:      "Overlay layers currently on the stack.",
		}),
		tierChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shellkit",
			Name:      "tier_changes_total",
			Help:      "Breakpoint tier crossings from window resizes.",
		}),
		splitSettles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shellkit",
			Name:      "split_settles_total",
			Help:      "Committed divider drags.",
		}),
		sidebarToggles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shellkit",
			Name:      "sidebar_toggles_total",
			Help:      "Manual sidebar collapse/expand commands.",
		}),
		diagnostics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shellkit",
			Name:      "diagnostics_total",
			Help:      "Non-fatal shell diagnostics (e.g. double-pop).",
		}),
	}
}

// Observe wraps a dispatch function so every event is recorded before being
// forwarded. next may be nil.
func (m *Metrics) Observe(next shell.Dispatch) shell.Dispatch {
	return func(env shell.Envelope) {
		m.record(env.Event)
		if next != nil {
			next(env)
		}
	}
}

func (m *Metrics) record(ev shell.Event) {
	switch e := ev.(type) {
	case shell.OverlayOpened:
		m.overlaysOpened.WithLabelValues(e.Kind.String()).Inc()
		m.overlaysActive.Inc()
	case shell.OverlayClosed:
		m.overlaysClosed.WithLabelValues(e.Kind.String(), e.Reason).Inc()
		m.overlaysActive.Dec()
	case shell.TierChanged:
		m.tierChanges.Inc()
	case shell.SplitRatioChanged:
		m.splitSettles.Inc()
	case shell.SidebarToggled:
		m.sidebarToggles.Inc()
	case shell.Diagnostic:
		m.diagnostics.Inc()
	}
}
