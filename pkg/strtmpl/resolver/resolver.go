// Package resolver provides ready-made variable sources for templates.
//
// Each constructor returns a strtmpl.Resolver. They compose with Chain and
// Prefixed:
//
//	r := resolver.Chain(
//	    overrides.Resolver(),
//	    resolver.Prefixed("env", resolver.Env()),
//	    resolver.FromConfig(cfg),
//	)
package resolver

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/config"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/store"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/vars"
)

// Env resolves names from the process environment.
// Variables set to the empty string count as resolved.
func Env() strtmpl.Resolver {
	return os.LookupEnv
}

// EnvPrefix resolves name from the environment variable prefix+name.
func EnvPrefix(prefix string) strtmpl.Resolver {
	return func(name string) (string, bool) {
		return os.LookupEnv(prefix + name)
	}
}

// Map resolves names from m. The map is read on every lookup.
func Map(m map[string]string) strtmpl.Resolver {
	return strtmpl.MapResolver(m)
}

// Chain tries each resolver in order and returns the first hit.
func Chain(resolvers ...strtmpl.Resolver) strtmpl.Resolver {
	return strtmpl.ChainResolver(resolvers...)
}

// Func adapts a lookup that signals absence with the empty string.
func Func(fn func(name string) string) strtmpl.Resolver {
	return func(name string) (string, bool) {
		v := fn(name)
		return v, v != ""
	}
}

// Prefixed routes names of the form "prefix:rest" to r with the prefix
// stripped. Any other name is unresolved.
//
// The template's name pattern must allow ':' for such names to be found.
func Prefixed(prefix string, r strtmpl.Resolver) strtmpl.Resolver {
	p := prefix + ":"
	return func(name string) (string, bool) {
		rest, ok := strings.CutPrefix(name, p)
		if !ok || r == nil {
			return "", false
		}
		return r(rest)
	}
}

// FromVars resolves names from a live variable set.
func FromVars(s *vars.Set) strtmpl.Resolver {
	return s.Resolver()
}

// FromConfig resolves dotted paths from a configuration document.
func FromConfig(c config.Config) strtmpl.Resolver {
	return c.Resolver()
}

// FromStore resolves names from a variable store, searching scopes in order.
func FromStore(ctx context.Context, s store.Store, logger *slog.Logger, scopes ...string) strtmpl.Resolver {
	return store.Resolver(ctx, s, logger, scopes...)
}
