package main

import (
	"fmt"
	"os"

	"github.com/eikasia30/gitqlite/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ignore <paths...>",
		Short: "Print which of the given paths the ignore rules exclude",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			defer r.Close()

			ig, err := repo.LoadIgnore(r.RootDir)
			if err != nil {
				return err
			}
			anyIgnored := false
			for _, p := range args {
				if ig.ShouldIgnore(p) {
					anyIgnored = true
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}
			// Exit 1, silently, when no path is excluded.
			if !anyIgnored {
				os.Exit(1)
			}
			return nil
		},
	}
}
