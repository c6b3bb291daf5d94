// Package observability provides structured logging, metrics and tracing
// hooks for strtmpl substitutions.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NewCallID returns a fresh identifier for one substitution call.
func NewCallID() string {
	return uuid.New().String()
}

// EnrichLogger adds call context to a logger.
// Returns a new logger with call_id and syntax fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, NewCallID(), "unix")
//	enriched.Debug("scanning") // includes call_id, syntax
func EnrichLogger(logger *slog.Logger, callID, syntax string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("call_id", callID),
		slog.String("syntax", syntax),
	)
}

// LogSubstituteStart logs the start of a substitution.
func LogSubstituteStart(logger *slog.Logger, inputLen int) {
	if logger == nil {
		return
	}
	logger.Debug("substitution starting",
		slog.Int("input_len", inputLen),
	)
}

// LogSubstituteComplete logs a successful substitution.
func LogSubstituteComplete(logger *slog.Logger, durationMs float64, expansions int) {
	if logger == nil {
		return
	}
	logger.Debug("substitution completed",
		slog.Float64("duration_ms", durationMs),
		slog.Int("expansions", expansions),
	)
}

// LogSubstituteError logs a failed substitution.
func LogSubstituteError(logger *slog.Logger, err error, durationMs float64, expansions int) {
	if logger == nil {
		return
	}
	logger.Error("substitution failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("expansions", expansions),
	)
}

// LogUnresolved logs a variable replaced by the empty string in safe mode.
func LogUnresolved(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Warn("variable unresolved, substituting empty string",
		slog.String("variable", name),
	)
}

// LogDefaultUsed logs a variable satisfied by its inline default.
func LogDefaultUsed(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Debug("variable resolved from default",
		slog.String("variable", name),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
