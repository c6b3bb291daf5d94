package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records substitution metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSubstitution records one Substitute call with its duration,
	// the number of references replaced and its error status.
	RecordSubstitution(ctx context.Context, syntax string, duration time.Duration, expansions int, err error)

	// RecordUnresolved records a variable blanked in safe mode.
	RecordUnresolved(ctx context.Context, syntax, name string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	substitutions metric.Int64Counter
	latency       metric.Float64Histogram
	errors        metric.Int64Counter
	expansions    metric.Int64Histogram
	unresolved    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.Meter("strtmpl"))
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	substitutions, err := meter.Int64Counter("strtmpl.substitutions",
		metric.WithDescription("Number of substitution calls"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("strtmpl.substitution.latency_ms",
		metric.WithDescription("Substitution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("strtmpl.substitution.errors",
		metric.WithDescription("Number of failed substitution calls"),
	)
	if err != nil {
		return nil, err
	}

	expansions, err := meter.Int64Histogram("strtmpl.expansions",
		metric.WithDescription("References replaced per substitution call"),
	)
	if err != nil {
		return nil, err
	}

	unresolved, err := meter.Int64Counter("strtmpl.unresolved",
		metric.WithDescription("Variables replaced by the empty string in safe mode"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		substitutions: substitutions,
		latency:       latency,
		errors:        errs,
		expansions:    expansions,
		unresolved:    unresolved,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderWithProvider returns a MetricsRecorder whose instruments
// come from provider instead of the global meter provider.
func NewMetricsRecorderWithProvider(provider metric.MeterProvider) (MetricsRecorder, error) {
	m, err := newOtelMetrics(provider.Meter("strtmpl"))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSubstitution implements MetricsRecorder.
func (m *otelMetrics) RecordSubstitution(ctx context.Context, syntax string, duration time.Duration, expansions int, err error) {
	attrs := metric.WithAttributes(
		attribute.String("syntax", syntax),
		attribute.Bool("success", err == nil),
	)
	m.substitutions.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.expansions.Record(ctx, int64(expansions), attrs)
	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("syntax", syntax)))
	}
}

// RecordUnresolved implements MetricsRecorder.
func (m *otelMetrics) RecordUnresolved(ctx context.Context, syntax, name string) {
	m.unresolved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("syntax", syntax),
		attribute.String("variable", name),
	))
}
