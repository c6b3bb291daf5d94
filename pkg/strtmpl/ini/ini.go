// Package ini reads INI-style configuration files whose values may refer
// to other values.
//
// References use the Unix template syntax with names that may contain
// dots and colons:
//
//	[paths]
//	root = /srv/app
//	logs = ${root}/logs           ; same section
//
//	[server]
//	access_log = ${paths:logs}/access.log
//	user = ${env:USER?nobody}     ; process environment
//
// A bare name is looked up in the section being read and then in
// DefaultSection. A referenced value is expanded in its own section before
// it is inserted, and is not rescanned afterwards. Values are expanded on
// every Get; the parsed File is immutable and safe for concurrent use.
package ini

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
)

// DefaultSection holds keys visible from every section.
const DefaultSection = "DEFAULT"

// NamePattern is the variable name pattern used inside values.
const NamePattern = `[A-Za-z0-9_.:]+`

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 100

// Lookup errors.
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrKeyNotFound     = errors.New("key not found")
)

// Options configures value expansion.
type Options struct {
	// Safe turns unresolved references into empty strings instead of errors.
	Safe bool

	// MaxDepth bounds how deeply references may nest. Self-referential
	// values fail with strtmpl.ErrMaxExpansions once it is exceeded.
	MaxDepth int

	// Logger receives substitution logs. Nil disables logging.
	Logger *slog.Logger
}

// File is a parsed INI document.
type File struct {
	opts     Options
	tmpl     *strtmpl.Template
	order    []string
	sections map[string]*section
}

type section struct {
	keys   []string
	values map[string]string
}

func newFile(opts Options) (*File, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	tmpl, err := strtmpl.NewUnixShell(nil,
		strtmpl.WithSafe(opts.Safe),
		strtmpl.WithNamePattern(NamePattern),
		strtmpl.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}
	return &File{
		opts:     opts,
		tmpl:     tmpl,
		sections: make(map[string]*section),
	}, nil
}

func (f *File) section(name string) *section {
	s, ok := f.sections[name]
	if !ok {
		s = &section{values: make(map[string]string)}
		f.sections[name] = s
		f.order = append(f.order, name)
	}
	return s
}

func (f *File) setValue(sec, key, value string) {
	s := f.section(sec)
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (f *File) appendValue(sec, key, line string) {
	s := f.section(sec)
	if s.values[key] == "" {
		s.values[key] = line
		return
	}
	s.values[key] += "\n" + line
}

// Sections returns section names in order of first appearance.
// DefaultSection is included only when it has keys.
func (f *File) Sections() []string {
	out := make([]string, 0, len(f.order))
	for _, name := range f.order {
		if name == DefaultSection && len(f.sections[name].keys) == 0 {
			continue
		}
		out = append(out, name)
	}
	return out
}

// HasSection reports whether the section exists.
func (f *File) HasSection(name string) bool {
	_, ok := f.sections[name]
	return ok
}

// Keys returns the keys defined directly in section, in file order.
func (f *File) Keys(sec string) []string {
	s, ok := f.sections[sec]
	if !ok {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Raw returns the unexpanded value of key in sec, falling back to
// DefaultSection. Missing sections have no keys.
func (f *File) Raw(sec, key string) (string, bool) {
	s, ok := f.sections[sec]
	if !ok {
		return "", false
	}
	if v, ok := s.values[key]; ok {
		return v, true
	}
	if s, ok := f.sections[DefaultSection]; ok {
		v, ok := s.values[key]
		return v, ok
	}
	return "", false
}

// Get returns the expanded value of key in sec.
func (f *File) Get(sec, key string) (string, error) {
	raw, ok := f.Raw(sec, key)
	if !ok {
		if !f.HasSection(sec) {
			return "", fmt.Errorf("%w: %s", ErrSectionNotFound, sec)
		}
		return "", fmt.Errorf("%w: [%s] %s", ErrKeyNotFound, sec, key)
	}
	e := &expansion{f: f}
	return e.expand(sec, key, raw, 0)
}

// GetDefault returns the expanded value of key in sec, or def on any error.
func (f *File) GetDefault(sec, key, def string) string {
	v, err := f.Get(sec, key)
	if err != nil {
		return def
	}
	return v
}

// Section returns every key visible in sec, expanded. Keys from
// DefaultSection are included unless sec overrides them.
func (f *File) Section(sec string) (map[string]string, error) {
	if !f.HasSection(sec) {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, sec)
	}
	out := make(map[string]string)
	for _, name := range []string{DefaultSection, sec} {
		for _, key := range f.Keys(name) {
			v, err := f.Get(sec, key)
			if err != nil {
				return nil, fmt.Errorf("[%s] %s: %w", sec, key, err)
			}
			out[key] = v
		}
	}
	return out, nil
}

// expansion carries the state of one Get call.
type expansion struct {
	f   *File
	err error
}

func (e *expansion) expand(sec, key, raw string, depth int) (string, error) {
	if depth > e.f.opts.MaxDepth {
		return "", &strtmpl.ExpansionLimitError{Limit: e.f.opts.MaxDepth, Name: sec + ":" + key}
	}
	out, err := e.f.tmpl.WithResolver(e.resolver(sec, depth)).Substitute(raw)
	if e.err != nil {
		return "", e.err
	}
	return out, err
}

func (e *expansion) resolver(sec string, depth int) strtmpl.Resolver {
	return func(name string) (string, bool) {
		if e.err != nil {
			return "", true
		}
		target, key := sec, name
		if s, k, ok := strings.Cut(name, ":"); ok {
			if s == "env" {
				v, ok := os.LookupEnv(k)
				return e.f.tmpl.Literal(v), ok
			}
			target, key = s, k
		}
		raw, ok := e.f.Raw(target, key)
		if !ok {
			return "", false
		}
		v, err := e.expand(target, key, raw, depth+1)
		if err != nil {
			e.err = err
			return "", true
		}
		return e.f.tmpl.Literal(v), true
	}
}
