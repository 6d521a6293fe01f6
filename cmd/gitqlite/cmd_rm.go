package main

import (
	"fmt"
	"os"

	"github.com/eikasia30/gitqlite/pkg/repo"
	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "rm <file>",
		Short: "Remove a file from the staging index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			defer r.Close()

			removed, err := r.Remove(args[0])
			if err != nil {
				return err
			}
			if removed == nil {
				return nil
			}
			if !cached {
				if err := os.Remove(args[0]); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove working file: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rm %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "unstage only, keep the working file")
	return cmd
}
