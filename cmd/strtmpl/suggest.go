package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
)

// maxSuggestions caps the names offered for a missing variable.
const maxSuggestions = 3

// withSuggestions annotates a missing-variable error with similar names
// from the given sources. Other errors are returned unchanged.
func withSuggestions(err error, sources []func() []string) error {
	var nf *strtmpl.VariableNotFoundError
	if !errors.As(err, &nf) {
		return err
	}
	names := suggest(nf.Name, sources)
	if len(names) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(names, ", "))
}

func suggest(name string, sources []func() []string) []string {
	seen := make(map[string]bool)
	var candidates []string
	for _, src := range sources {
		for _, n := range src() {
			if n != name && !seen[n] {
				seen[n] = true
				candidates = append(candidates, n)
			}
		}
	}
	sort.Strings(candidates)

	var out []string
	for _, m := range fuzzy.Find(name, candidates) {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// envNames lists the names of the process environment.
func envNames() []string {
	env := os.Environ()
	names := make([]string, 0, len(env))
	for _, kv := range env {
		if name, _, ok := strings.Cut(kv, "="); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}
