package strtmpl

import (
	"fmt"
	"sort"
	"strings"
)

// MustSubstitute substitutes s and panics on error.
//
// Use this with safe templates or when every variable is known to resolve.
func (t *Template) MustSubstitute(s string) string {
	out, err := t.Substitute(s)
	if err != nil {
		panic(fmt.Sprintf("strtmpl: %v", err))
	}
	return out
}

// SubstituteAll substitutes every string in ss.
//
// Returns a new slice. A nil slice yields nil. On error, returns nil and
// the first error.
func (t *Template) SubstituteAll(ss []string) ([]string, error) {
	if ss == nil {
		return nil, nil
	}

	results := make([]string, len(ss))
	for i, s := range ss {
		out, err := t.Substitute(s)
		if err != nil {
			return nil, err
		}
		results[i] = out
	}
	return results, nil
}

// SubstituteMap substitutes all string values of m recursively.
//
// Returns a new map. Nested map[string]any and []any values are walked,
// other values are copied as-is. On error, returns nil and the first error.
//
// Example:
//
//	out, _ := tmpl.SubstituteMap(map[string]any{
//	    "url":  "https://${host}/api",
//	    "port": 8080, // copied as-is
//	})
func (t *Template) SubstituteMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}

	result := make(map[string]any, len(m))
	for k, v := range m {
		out, err := t.substituteValue(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		result[k] = out
	}
	return result, nil
}

func (t *Template) substituteValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return t.Substitute(val)
	case map[string]any:
		return t.SubstituteMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			sub, err := t.substituteValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	default:
		return v, nil
	}
}

// blank replaces a reference while listing names. It matches no scanner.
const blank = "\uE003"

// References returns the sorted, de-duplicated names referenced in s.
//
// Escaped sigils are ignored and nothing is resolved, so names that would
// only appear through recursive expansion are not reported.
func (t *Template) References(s string) []string {
	working := t.codec.Escape(s)
	seen := make(map[string]struct{})
	for {
		ref, ok := t.scanner.Find(working)
		if !ok {
			break
		}
		seen[ref.Name] = struct{}{}
		working = working[:ref.Start] + blank + working[ref.End:]
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package-level templates used by Expand and ExpandWindows.
var (
	defaultUnix    = MustUnixShell(nil, WithSafe(true))
	defaultWindows = MustWindowsCmd(nil, WithSafe(true))
)

// Expand substitutes Unix-style references in s from vars.
//
// Missing variables become empty strings unless they carry a default.
//
// Example:
//
//	out := strtmpl.Expand("Hello ${name?World}", nil)
//	// out: "Hello World"
func Expand(s string, vars map[string]string) string {
	return expandWith(defaultUnix, s, vars)
}

// ExpandWindows substitutes %name% references in s from vars.
// Missing variables become empty strings.
func ExpandWindows(s string, vars map[string]string) string {
	return expandWith(defaultWindows, s, vars)
}

func expandWith(base *Template, s string, vars map[string]string) string {
	if s == "" || !strings.ContainsAny(s, "$%") {
		return s
	}
	// Safe templates without an expansion limit never fail.
	out, _ := base.WithResolver(MapResolver(vars)).Substitute(s)
	return out
}
