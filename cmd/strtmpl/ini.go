package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl/ini"
)

func newIniCmd(a *app) *cobra.Command {
	var (
		safe     bool
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "ini FILE SECTION [KEY]",
		Short: "Print an expanded value, or a whole section, from an INI file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ini.Load(args[0], ini.Options{
				Safe:     a.boolSetting(cmd, "safe", "safe", safe),
				MaxDepth: maxDepth,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 3 {
				v, err := f.Get(args[1], args[2])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, v)
				return err
			}

			values, err := f.Section(args[1])
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if _, err := fmt.Fprintf(out, "%s = %s\n", k, values[k]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&safe, "safe", false, "replace unresolved references with empty strings")
	cmd.Flags().IntVar(&maxDepth, "max-depth", ini.DefaultMaxDepth, "maximum reference nesting")
	return cmd
}
