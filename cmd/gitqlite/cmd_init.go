package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eikasia30/gitqlite/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var initialBranch string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty gitqlite repository or reinitialize an existing one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			r, reinitialized, err := repo.InitBranch(abs, initialBranch)
			if err != nil {
				return err
			}
			defer r.Close()

			verb := "initialized empty"
			if reinitialized {
				verb = "reinitialized existing"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s gitqlite repository in %s\n",
				verb, r.HomeDir+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVarP(&initialBranch, "initial-branch", "b", "", "initial branch name for the new repository")
	return cmd
}
