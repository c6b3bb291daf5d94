package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/config"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/observability"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/resolver"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/store"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/vars"
)

// templateFlags configure the template itself.
type templateFlags struct {
	syntax        string
	safe          bool
	namePattern   string
	maxExpansions int
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.syntax, "syntax", "unix", "reference syntax (unix, windows)")
	cmd.Flags().BoolVar(&f.safe, "safe", false, "replace unresolved variables with empty strings")
	cmd.Flags().StringVar(&f.namePattern, "name-pattern", strtmpl.DefaultNamePattern, "regular expression for variable names")
	cmd.Flags().IntVar(&f.maxExpansions, "max-expansions", 0, "fail after this many expansions (0 = unlimited)")
}

// build applies settings file defaults and creates the template.
func (f *templateFlags) build(a *app, cmd *cobra.Command, r strtmpl.Resolver) (*strtmpl.Template, error) {
	syntax, err := strtmpl.ParseSyntax(a.stringSetting(cmd, "syntax", "syntax", f.syntax))
	if err != nil {
		return nil, err
	}
	opts := []strtmpl.Option{
		strtmpl.WithSafe(a.boolSetting(cmd, "safe", "safe", f.safe)),
		strtmpl.WithNamePattern(a.stringSetting(cmd, "name-pattern", "name_pattern", f.namePattern)),
		strtmpl.WithMaxExpansions(a.intSetting(cmd, "max-expansions", "max_expansions", f.maxExpansions)),
		strtmpl.WithPlaceholderCheck(true),
		strtmpl.WithLogger(a.logger),
	}
	if a.telemetry != nil {
		opts = append(opts,
			strtmpl.WithMetrics(observability.NewMetricsRecorder()),
			strtmpl.WithSpanManager(observability.NewSpanManager()),
		)
	}
	return strtmpl.New(syntax, r, opts...)
}

// storeFlags locate the SQLite variable store.
type storeFlags struct {
	dbPath  string
	timeout time.Duration
}

// path returns the store path from --db or the "db" setting.
func (f *storeFlags) path(a *app, cmd *cobra.Command) string {
	return a.stringSetting(cmd, "db", "db", f.dbPath)
}

// storeContext bounds store access by the configured timeout.
func (f *storeFlags) storeContext(a *app, cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := f.timeout
	if !cmd.Flags().Changed("timeout") {
		timeout = a.settings.Duration("timeout", timeout)
	}
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// sourceFlags select where variables come from.
type sourceFlags struct {
	storeFlags
	set       []string
	varsFiles []string
	scopes    []string
	env       bool

	// known lists variable names per configured source, for suggestions.
	known []func() []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "set a variable (name=value, repeatable)")
	cmd.Flags().StringArrayVar(&f.varsFiles, "vars", nil, "YAML or JSON variables file (repeatable)")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite variable store")
	cmd.Flags().StringArrayVar(&f.scopes, "scope", []string{store.DefaultScope}, "variable store scope (repeatable, searched in order)")
	cmd.Flags().BoolVar(&f.env, "env", false, "resolve variables from the environment")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "variable store timeout (0 = none)")
}

// resolver chains the configured sources: --set, --vars, --db, --env.
// The returned cleanup closes any opened store.
func (f *sourceFlags) resolver(ctx context.Context, a *app, cmd *cobra.Command) (strtmpl.Resolver, func(), error) {
	var chain []strtmpl.Resolver
	cleanup := func() {}
	f.known = nil

	if len(f.set) > 0 {
		overrides := vars.New()
		for _, assignment := range f.set {
			if err := overrides.PutAssignment(assignment); err != nil {
				return nil, cleanup, err
			}
		}
		chain = append(chain, resolver.FromVars(overrides))
		f.known = append(f.known, overrides.Names)
	}

	for _, path := range a.sliceSetting(cmd, "vars", "vars", f.varsFiles) {
		cfg, err := config.FromFile(path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("load variables: %w", err)
		}
		chain = append(chain, resolver.FromConfig(cfg))
		f.known = append(f.known, cfg.Keys)
	}

	if dbPath := f.path(a, cmd); dbPath != "" {
		s, err := store.NewSQLiteStore(dbPath, store.WithLogger(a.logger))
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { s.Close() }
		scopes := a.sliceSetting(cmd, "scope", "scopes", f.scopes)
		chain = append(chain, resolver.FromStore(ctx, s, a.logger, scopes...))
		f.known = append(f.known, func() []string {
			var names []string
			for _, scope := range scopes {
				stored, err := s.List(ctx, scope)
				if err != nil {
					continue
				}
				for _, v := range stored {
					names = append(names, v.Name)
				}
			}
			return names
		})
	}

	if a.boolSetting(cmd, "env", "env", f.env) {
		chain = append(chain, resolver.Env())
		f.known = append(f.known, envNames)
	}

	return resolver.Chain(chain...), cleanup, nil
}

// readInput joins args with spaces, or reads stdin when there are none.
// The second result reports whether the text came from args.
func readInput(cmd *cobra.Command, args []string) (string, bool, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), true, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", false, fmt.Errorf("read stdin: %w", err)
	}
	return string(data), false, nil
}

func newExpandCmd(a *app) *cobra.Command {
	var tf templateFlags
	var sf sourceFlags

	cmd := &cobra.Command{
		Use:   "expand [text...]",
		Short: "Substitute variable references in text or stdin",
		Example: `  strtmpl expand --set name=World 'Hello ${name}'
  strtmpl expand --env --safe < deploy.tmpl
  strtmpl expand --syntax windows --set DIR=C:\app '%DIR%\bin'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := sf.storeContext(a, cmd)
			defer cancel()

			r, cleanup, err := sf.resolver(ctx, a, cmd)
			defer cleanup()
			if err != nil {
				return err
			}

			tmpl, err := tf.build(a, cmd, r)
			if err != nil {
				return err
			}

			text, fromArgs, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out, err := tmpl.SubstituteContext(ctx, text)
			if err != nil {
				return withSuggestions(err, sf.known)
			}
			if fromArgs {
				out += "\n"
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	tf.register(cmd)
	sf.register(cmd)
	return cmd
}

func newRefsCmd(a *app) *cobra.Command {
	var tf templateFlags

	cmd := &cobra.Command{
		Use:   "refs [text...]",
		Short: "List the variables referenced in text or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := tf.build(a, cmd, nil)
			if err != nil {
				return err
			}
			text, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			for _, name := range tmpl.References(text) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	tf.register(cmd)
	return cmd
}
