package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
)

// Resolver returns a strtmpl.Resolver that looks name up in each scope in
// order. ctx is used for every lookup the resolver makes.
//
// Store failures other than ErrNotFound count as unresolved and are
// logged to logger when it is non-nil.
func Resolver(ctx context.Context, s Store, logger *slog.Logger, scopes ...string) strtmpl.Resolver {
	return func(name string) (string, bool) {
		for _, scope := range scopes {
			v, err := s.Get(ctx, scope, name)
			if err == nil {
				return v, true
			}
			if !errors.Is(err, ErrNotFound) && logger != nil {
				logger.Warn("variable store lookup failed",
					slog.String("scope", scope),
					slog.String("variable", name),
					slog.String("error", err.Error()),
				)
			}
		}
		return "", false
	}
}
