package telemetry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/odvcencio/shellkit/pkg/ui/overlay"
	"github.com/odvcencio/shellkit/pkg/ui/shell"
)

func newRecordedDispatch(next shell.Dispatch) (shell.Dispatch, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return Trace(tp.Tracer("test"), next), rec
}

func TestTrace_SpanPerEventWithAttributes(t *testing.T) {
	dispatch, rec := newRecordedDispatch(nil)

	shellID := uuid.New()
	at := time.Unix(1000, 0)
	dispatch(shell.Envelope{
		Shell: shellID,
		Time:  at,
		Event: shell.OverlayClosed{ID: "layer-1", Kind: overlay.KindModal, Reason: "light-dismiss"},
	})

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "shell.overlay_closed", span.Name())
	assert.Equal(t, at, span.StartTime())

	attrs := span.Attributes()
	want := map[string]string{
		string(AttrShellID):     shellID.String(),
		string(AttrOverlayID):   "layer-1",
		string(AttrOverlayKind): "modal",
		string(AttrCloseReason): "light-dismiss",
	}
	for _, kv := range attrs {
		if expected, ok := want[string(kv.Key)]; ok {
			assert.Equal(t, expected, kv.Value.AsString(), string(kv.Key))
			delete(want, string(kv.Key))
		}
	}
	assert.Empty(t, want, "missing attributes")
}

func TestTrace_NamesEveryEventType(t *testing.T) {
	dispatch, rec := newRecordedDispatch(nil)

	events := []shell.Event{
		shell.TierChanged{},
		shell.OverlayOpened{},
		shell.SplitRatioChanged{},
		shell.SidebarToggled{},
		shell.Diagnostic{},
	}
	for _, ev := range events {
		dispatch(shell.Envelope{Event: ev})
	}

	spans := rec.Ended()
	require.Len(t, spans, len(events))
	names := make(map[string]bool)
	for _, s := range spans {
		names[s.Name()] = true
	}
	for _, n := range []string{
		"shell.tier_changed", "shell.overlay_opened", "shell.split_settled",
		"shell.sidebar_toggled", "shell.diagnostic",
	} {
		assert.True(t, names[n], n)
	}
}

func TestTrace_ForwardsToNext(t *testing.T) {
	var forwarded []shell.Envelope
	dispatch, _ := newRecordedDispatch(func(env shell.Envelope) {
		forwarded = append(forwarded, env)
	})

	dispatch(shell.Envelope{Event: shell.SidebarToggled{Collapsed: true}})

	require.Len(t, forwarded, 1)
	assert.Equal(t, shell.SidebarToggled{Collapsed: true}, forwarded[0].Event)
}
