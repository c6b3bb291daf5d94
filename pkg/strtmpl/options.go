package strtmpl

import (
	"log/slog"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl/observability"
)

// Option configures a Template.
type Option func(*Template)

// WithSafe selects the policy for variables that resolve to nothing.
//
// Default: false (fail with *VariableNotFoundError)
//
// Safe templates substitute the empty string instead. Inline defaults are
// honoured in both modes.
func WithSafe(safe bool) Option {
	return func(t *Template) {
		t.safe = safe
	}
}

// WithNamePattern sets the regular expression a variable name must match.
//
// Default: DefaultNamePattern ([A-Za-z0-9_]+)
//
// The pattern is embedded into the syntax's reference patterns, so it should
// not match the syntax's delimiters ("}", "?" or "%").
//
// Example:
//
//	tmpl, err := NewUnixShell(r, WithNamePattern(`[A-Za-z0-9_.:]+`))
//	out, _ := tmpl.Substitute("${db:host}")
func WithNamePattern(pattern string) Option {
	return func(t *Template) {
		if pattern != "" {
			t.namePattern = pattern
		}
	}
}

// WithMaxExpansions caps the number of references one call may replace.
//
// Default: 0 (unbounded)
//
// Values that reference themselves expand forever. With a limit, such a
// call fails with an *ExpansionLimitError wrapping ErrMaxExpansions.
func WithMaxExpansions(n int) Option {
	return func(t *Template) {
		if n >= 0 {
			t.maxExpansions = n
		}
	}
}

// WithPlaceholderCheck rejects input containing the reserved placeholder
// runes U+E000 to U+E002 with ErrPlaceholderCollision.
//
// Default: false (such input has undefined output)
func WithPlaceholderCheck(enabled bool) Option {
	return func(t *Template) {
		t.placeholderCheck = enabled
	}
}

// WithLogger sets the logger used for per-call debug logs and safe-mode
// warnings. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Template) {
		t.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
//
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(t *Template) {
		if m != nil {
			t.metrics = m
		}
	}
}

// WithSpanManager sets the tracing span manager.
//
// Default: observability.NoopSpanManager{}
func WithSpanManager(s observability.SpanManager) Option {
	return func(t *Template) {
		if s != nil {
			t.spans = s
		}
	}
}
