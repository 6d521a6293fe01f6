package main

import (
	"errors"
	"fmt"

	"github.com/eikasia30/gitqlite/pkg/repo"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var (
		system     bool
		global     bool
		local      bool
		showOrigin bool
	)

	cmd := &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Get or set a configuration value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := configScope(system, global, local, len(args) == 2)
			if err != nil {
				return err
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			defer r.Close()

			if len(args) == 2 {
				return r.ConfigSet(args[0], args[1], scope)
			}

			value, origin, ok, err := r.ConfigGet(args[0], scope)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if showOrigin {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", origin, value)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&system, "system", false, "use the system configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "use the per-user configuration file")
	cmd.Flags().BoolVar(&local, "local", false, "use the repository configuration file")
	cmd.Flags().BoolVar(&showOrigin, "show-origin", false, "print the file the value came from")
	return cmd
}

// configScope maps the three mutually exclusive flags onto a scope. With
// no flag, reads merge all layers and writes target the local file.
func configScope(system, global, local, writing bool) (repo.Scope, error) {
	set := 0
	for _, f := range []bool{system, global, local} {
		if f {
			set++
		}
	}
	if set > 1 {
		return repo.ScopeAll, errors.New("only one configuration file at a time")
	}
	switch {
	case system:
		return repo.ScopeSystem, nil
	case global:
		return repo.ScopeGlobal, nil
	case local:
		return repo.ScopeLocal, nil
	case writing:
		return repo.ScopeLocal, nil
	default:
		return repo.ScopeAll, nil
	}
}
