package strtmpl

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl/observability"
)

// Substitute replaces every variable reference in s and returns the result.
//
// References are replaced leftmost first and the rebuilt string is scanned
// again from the start, so substituted values may contain references of
// their own. On error the returned string is empty.
//
// Example:
//
//	tmpl := MustUnixShell(MapResolver(map[string]string{"foo": "FOO"}))
//	out, err := tmpl.Substitute("$foo bar")
//	// out: "FOO bar"
func (t *Template) Substitute(s string) (string, error) {
	return t.SubstituteContext(context.Background(), s)
}

// SubstituteContext is Substitute with a context for tracing and metrics.
// The context is not checked for cancellation.
func (t *Template) SubstituteContext(ctx context.Context, s string) (string, error) {
	if t.placeholderCheck && containsPlaceholder(s) {
		return "", ErrPlaceholderCollision
	}

	syntax := t.syntax.String()
	var logger *slog.Logger
	if t.logger != nil {
		logger = observability.EnrichLogger(t.logger, observability.NewCallID(), syntax)
	}

	ctx, span := t.spans.StartSubstituteSpan(ctx, syntax, len(s))
	done := observability.TimedOperation()
	observability.LogSubstituteStart(logger, len(s))

	out, expansions, err := t.expand(ctx, logger, t.codec.Escape(s))

	durationMs := done()
	t.metrics.RecordSubstitution(ctx, syntax, time.Duration(durationMs*float64(time.Millisecond)), expansions, err)
	t.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogSubstituteError(logger, err, durationMs, expansions)
		return "", err
	}
	observability.LogSubstituteComplete(logger, durationMs, expansions)
	return t.codec.Unescape(out), nil
}

// expand runs the substitution loop over an escaped working string and
// reports how many references it replaced.
func (t *Template) expand(ctx context.Context, logger *slog.Logger, working string) (string, int, error) {
	expansions := 0
	for {
		ref, ok := t.scanner.Find(working)
		if !ok {
			return working, expansions, nil
		}
		if t.maxExpansions > 0 && expansions >= t.maxExpansions {
			return "", expansions, &ExpansionLimitError{Limit: t.maxExpansions, Name: ref.Name}
		}
		value, err := t.resolve(ctx, logger, ref)
		if err != nil {
			return "", expansions, err
		}
		expansions++
		working = working[:ref.Start] + value + working[ref.End:]
	}
}

func (t *Template) resolve(ctx context.Context, logger *slog.Logger, ref Reference) (string, error) {
	if v, ok := t.resolver.lookup(ref.Name); ok {
		return v, nil
	}
	if ref.HasDefault {
		observability.LogDefaultUsed(logger, ref.Name)
		return ref.Default, nil
	}
	if !t.safe {
		return "", &VariableNotFoundError{Name: ref.Name}
	}
	observability.LogUnresolved(logger, ref.Name)
	t.metrics.RecordUnresolved(ctx, t.syntax.String(), ref.Name)
	t.spans.AddSpanEvent(ctx, "strtmpl.unresolved", attribute.String("variable", ref.Name))
	return "", nil
}
