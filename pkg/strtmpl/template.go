package strtmpl

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl/observability"
)

// Syntax identifies the reference syntax of a Template.
type Syntax int

const (
	// SyntaxUnix is $name, ${name} and ${name?default} with \$ escapes.
	SyntaxUnix Syntax = iota
	// SyntaxWindows is %name% with %% escapes.
	SyntaxWindows
)

// String returns "unix" or "windows".
func (s Syntax) String() string {
	switch s {
	case SyntaxUnix:
		return "unix"
	case SyntaxWindows:
		return "windows"
	default:
		return fmt.Sprintf("syntax(%d)", int(s))
	}
}

// ParseSyntax parses "unix" or "windows" (also "shell" and "cmd").
func ParseSyntax(s string) (Syntax, error) {
	switch s {
	case "unix", "shell", "":
		return SyntaxUnix, nil
	case "windows", "cmd":
		return SyntaxWindows, nil
	default:
		return 0, fmt.Errorf("unknown syntax %q", s)
	}
}

// Template substitutes variable references of one syntax.
//
// Create with NewUnixShell, NewWindowsCmd or New. A Template is immutable
// and safe for concurrent use.
type Template struct {
	syntax   Syntax
	resolver Resolver
	scanner  Scanner
	codec    EscapeCodec

	safe             bool
	namePattern      string
	maxExpansions    int
	placeholderCheck bool

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a Template for the given syntax.
func New(syntax Syntax, resolver Resolver, opts ...Option) (*Template, error) {
	t := &Template{
		syntax:      syntax,
		resolver:    resolver,
		namePattern: DefaultNamePattern,
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(t)
	}

	switch syntax {
	case SyntaxUnix:
		s, err := newUnixScanner(t.namePattern)
		if err != nil {
			return nil, err
		}
		t.scanner = s
		t.codec = unixCodec{}
	case SyntaxWindows:
		s, err := newWindowsScanner(t.namePattern)
		if err != nil {
			return nil, err
		}
		t.scanner = s
		t.codec = windowsCodec{}
	default:
		return nil, fmt.Errorf("unknown syntax %v", syntax)
	}
	return t, nil
}

// NewUnixShell creates a Template for $name, ${name} and ${name?default}.
//
// Example:
//
//	tmpl, err := NewUnixShell(MapResolver(vars), WithSafe(true))
func NewUnixShell(resolver Resolver, opts ...Option) (*Template, error) {
	return New(SyntaxUnix, resolver, opts...)
}

// NewWindowsCmd creates a Template for %name%.
func NewWindowsCmd(resolver Resolver, opts ...Option) (*Template, error) {
	return New(SyntaxWindows, resolver, opts...)
}

// MustUnixShell is like NewUnixShell but panics on error.
func MustUnixShell(resolver Resolver, opts ...Option) *Template {
	t, err := NewUnixShell(resolver, opts...)
	if err != nil {
		panic(fmt.Sprintf("strtmpl: %v", err))
	}
	return t
}

// MustWindowsCmd is like NewWindowsCmd but panics on error.
func MustWindowsCmd(resolver Resolver, opts ...Option) *Template {
	t, err := NewWindowsCmd(resolver, opts...)
	if err != nil {
		panic(fmt.Sprintf("strtmpl: %v", err))
	}
	return t
}

// Syntax returns the template's reference syntax.
func (t *Template) Syntax() Syntax { return t.syntax }

// Safe reports whether unresolved variables become empty strings.
func (t *Template) Safe() bool { return t.safe }

// NamePattern returns the variable name pattern.
func (t *Template) NamePattern() string { return t.namePattern }

// WithResolver returns a copy of t that looks variables up in resolver.
// Compiled scanners and every option are shared with t.
func (t *Template) WithResolver(resolver Resolver) *Template {
	c := *t
	c.resolver = resolver
	return &c
}

// Literal marks s so that, when returned by a resolver, it is copied to
// the output verbatim instead of being scanned for further references.
//
//	r := func(name string) (string, bool) {
//	    v, ok := secrets[name]
//	    return tmpl.Literal(v), ok
//	}
func (t *Template) Literal(s string) string {
	return t.codec.Protect(s)
}
