package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl/store"
)

// defaultDBPath is used when neither --db nor the settings file name a store.
const defaultDBPath = "strtmpl.db"

type varsFlags struct {
	storeFlags
	scope string
}

// scopeName returns --scope, else the first "scopes" setting, else the
// flag default. expand reads the same key as its search order.
func (f *varsFlags) scopeName(a *app, cmd *cobra.Command) string {
	if cmd.Flags().Changed("scope") {
		return f.scope
	}
	if scopes := a.settings.StringSlice("scopes", nil); len(scopes) > 0 {
		return scopes[0]
	}
	return f.scope
}

func newVarsCmd(a *app) *cobra.Command {
	var f varsFlags

	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Manage the SQLite variable store",
	}
	cmd.PersistentFlags().StringVar(&f.dbPath, "db", defaultDBPath, "SQLite variable store")
	cmd.PersistentFlags().StringVar(&f.scope, "scope", store.DefaultScope, "variable scope")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 0, "store timeout (0 = none)")

	// withStore opens the store for the duration of fn.
	withStore := func(cmd *cobra.Command, fn func(s store.Store, scope string) error) error {
		s, err := store.NewSQLiteStore(f.path(a, cmd), store.WithLogger(a.logger))
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(s, f.scopeName(a, cmd))
	}

	setCmd := &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Store a variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := f.storeContext(a, cmd)
			defer cancel()
			return withStore(cmd, func(s store.Store, scope string) error {
				if err := s.Set(ctx, scope, args[0], args[1]); err != nil {
					return err
				}
				a.logger.Info("variable stored", "scope", scope, "variable", args[0])
				return nil
			})
		},
	}

	getCmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := f.storeContext(a, cmd)
			defer cancel()
			return withStore(cmd, func(s store.Store, scope string) error {
				v, err := s.Get(ctx, scope, args[0])
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every variable of a scope as name=value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := f.storeContext(a, cmd)
			defer cancel()
			return withStore(cmd, func(s store.Store, scope string) error {
				vars, err := s.List(ctx, scope)
				if err != nil {
					return err
				}
				for _, v := range vars {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", v.Name, v.Value); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	var all bool
	deleteCmd := &cobra.Command{
		Use:   "delete [NAME...]",
		Short: "Remove variables, or the whole scope with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("give variable names or --all, not both")
			}
			ctx, cancel := f.storeContext(a, cmd)
			defer cancel()
			return withStore(cmd, func(s store.Store, scope string) error {
				if all {
					return s.DeleteScope(ctx, scope)
				}
				for _, name := range args {
					if err := s.Delete(ctx, scope, name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	deleteCmd.Flags().BoolVar(&all, "all", false, "delete every variable in the scope")

	cmd.AddCommand(setCmd, getCmd, listCmd, deleteCmd)
	return cmd
}
