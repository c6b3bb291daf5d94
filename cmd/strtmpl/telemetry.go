package main

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// telemetry holds the providers installed by --otel.
type telemetry struct {
	logger *slog.Logger
	reader *sdkmetric.ManualReader
	meters *sdkmetric.MeterProvider
	traces *sdktrace.TracerProvider
}

// installTelemetry registers global tracer and meter providers that report
// through logger. Spans are logged as they end, metrics on shutdown.
func installTelemetry(logger *slog.Logger) *telemetry {
	reader := sdkmetric.NewManualReader()
	t := &telemetry{
		logger: logger,
		reader: reader,
		meters: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		traces: sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logExporter{logger: logger})),
	}
	otel.SetMeterProvider(t.meters)
	otel.SetTracerProvider(t.traces)
	return t
}

// shutdown logs the collected metrics and stops both providers.
func (t *telemetry) shutdown(ctx context.Context) error {
	var rm metricdata.ResourceMetrics
	collectErr := t.reader.Collect(ctx, &rm)
	if collectErr == nil {
		t.logMetrics(rm)
	}
	return errors.Join(collectErr, t.traces.Shutdown(ctx), t.meters.Shutdown(ctx))
}

func (t *telemetry) logMetrics(rm metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				t.logger.Info("metric", slog.String("name", m.Name), slog.Int64("value", total))
			case metricdata.Histogram[int64]:
				var count uint64
				var sum int64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				t.logger.Info("metric", slog.String("name", m.Name), slog.Uint64("count", count), slog.Int64("sum", sum))
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				t.logger.Info("metric", slog.String("name", m.Name), slog.Uint64("count", count), slog.Float64("sum", sum))
			}
		}
	}
}

// logExporter writes finished spans to a logger.
type logExporter struct {
	logger *slog.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := []any{
			slog.String("name", s.Name()),
			slog.String("status", s.Status().Code.String()),
			slog.Duration("duration", s.EndTime().Sub(s.StartTime())),
			slog.String("trace_id", s.SpanContext().TraceID().String()),
		}
		for _, kv := range s.Attributes() {
			attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
		}
		e.logger.Info("span", attrs...)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}
