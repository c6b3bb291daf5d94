package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, SpanManager) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("shutting down tracer provider: %v", err)
		}
	})
	return exporter, NewSpanManagerWithProvider(tp)
}

func TestStartSubstituteSpan(t *testing.T) {
	exporter, sm := setupTracingTest(t)

	_, span := sm.StartSubstituteSpan(context.Background(), "windows", 12)
	require.NotNil(t, span)
	sm.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "strtmpl.substitute", s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "windows", attrs["strtmpl.syntax"].AsString())
	assert.Equal(t, int64(12), attrs["strtmpl.input_len"].AsInt64())
}

func TestEndSpanWithError(t *testing.T) {
	exporter, sm := setupTracingTest(t)

	_, span := sm.StartSubstituteSpan(context.Background(), "unix", 1)
	sm.EndSpanWithError(span, errors.New("variable not found: x"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "variable not found: x", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestEndSpanWithError_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		EndSpanWithError(nil, nil)
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, sm := setupTracingTest(t)

	ctx, span := sm.StartSubstituteSpan(context.Background(), "unix", 1)
	sm.AddSpanEvent(ctx, "strtmpl.unresolved", attribute.String("variable", "HOME"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "strtmpl.unresolved", spans[0].Events[0].Name)
}

func TestAddSpanEvent_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "orphan")
	})
}
