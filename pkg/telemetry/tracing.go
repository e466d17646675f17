package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/shellkit/pkg/ui/shell"
)

const tracerName = "github.com/odvcencio/shellkit/pkg/ui/shell"

// TracerProvider holds the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// NewTracerProvider creates a provider that exports spans as pretty-printed
// JSON to w. Write to a file, never the terminal the shell draws on.
func NewTracerProvider(w io.Writer, serviceName string) (*TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	return &TracerProvider{provider: provider}, nil
}

// Shutdown flushes pending spans and shuts the provider down.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// Tracer returns the shell tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Trace wraps a dispatch so every shell event is recorded as a span,
// stamped with the envelope time. Chains with Metrics.Observe; next may
// be nil.
func Trace(tracer trace.Tracer, next shell.Dispatch) shell.Dispatch {
	return func(env shell.Envelope) {
		attrs := append(eventAttributes(env.Event), AttrShellID.String(env.Shell.String()))
		_, span := tracer.Start(context.Background(), spanName(env.Event),
			trace.WithTimestamp(env.Time),
			trace.WithAttributes(attrs...),
		)
		span.End(trace.WithTimestamp(env.Time))
		if next != nil {
			next(env)
		}
	}
}

// Attribute keys for shell tracing.
var (
	AttrShellID          = attribute.Key("shell.id")
	AttrOverlayID        = attribute.Key("shell.overlay.id")
	AttrOverlayKind      = attribute.Key("shell.overlay.kind")
	AttrCloseReason      = attribute.Key("shell.overlay.reason")
	AttrTierFrom         = attribute.Key("shell.tier.from")
	AttrTierTo           = attribute.Key("shell.tier.to")
	AttrSplitID          = attribute.Key("shell.split.id")
	AttrSplitRatio       = attribute.Key("shell.split.ratio")
	AttrSidebarCollapsed = attribute.Key("shell.sidebar.collapsed")
	AttrDiagnostic       = attribute.Key("shell.diagnostic.message")
)

func spanName(ev shell.Event) string {
	switch ev.(type) {
	case shell.TierChanged:
		return "shell.tier_changed"
	case shell.OverlayOpened:
		return "shell.overlay_opened"
	case shell.OverlayClosed:
		return "shell.overlay_closed"
	case shell.SplitRatioChanged:
		return "shell.split_settled"
	case shell.SidebarToggled:
		return "shell.sidebar_toggled"
	case shell.Diagnostic:
		return "shell.diagnostic"
	default:
		return "shell.event"
	}
}

func eventAttributes(ev shell.Event) []attribute.KeyValue {
	switch e := ev.(type) {
	case shell.TierChanged:
		return []attribute.KeyValue{
			AttrTierFrom.String(e.From.String()),
			AttrTierTo.String(e.To.String()),
		}
	case shell.OverlayOpened:
		return []attribute.KeyValue{
			AttrOverlayID.String(e.ID),
			AttrOverlayKind.String(e.Kind.String()),
		}
	case shell.OverlayClosed:
		return []attribute.KeyValue{
			AttrOverlayID.String(e.ID),
			AttrOverlayKind.String(e.Kind.String()),
			AttrCloseReason.String(e.Reason),
		}
	case shell.SplitRatioChanged:
		return []attribute.KeyValue{
			AttrSplitID.String(e.ID),
			AttrSplitRatio.Float64(e.Ratio),
		}
	case shell.SidebarToggled:
		return []attribute.KeyValue{
			AttrSidebarCollapsed.Bool(e.Collapsed),
		}
	case shell.Diagnostic:
		return []attribute.KeyValue{
			AttrDiagnostic.String(e.Message),
		}
	default:
		return nil
	}
}
