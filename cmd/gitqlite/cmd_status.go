package main

import (
	"fmt"
	"io"

	"github.com/eikasia30/gitqlite/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show staged changes, unstaged changes and untracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			defer r.Close()

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if st.Detached {
				fmt.Fprintf(out, "head detached at %s\n", st.HeadCommit)
			} else {
				fmt.Fprintf(out, "on branch %s\n", st.Branch)
			}
			if st.HeadCommit == nil {
				fmt.Fprintln(out, "no commits yet")
			}
			fmt.Fprintln(out)

			if st.Staged.Empty() {
				fmt.Fprintln(out, "no changes added to commit")
			} else {
				fmt.Fprintln(out, "changes to be committed:")
				printChanges(out, st.Staged)
			}
			fmt.Fprintln(out)

			if !st.Unstaged.Empty() {
				fmt.Fprintln(out, "changes not staged for commit:")
				printChanges(out, st.Unstaged)
			}
			if len(st.Untracked) > 0 {
				fmt.Fprintln(out, "untracked files:")
				for _, p := range st.Untracked {
					fmt.Fprintf(out, "      %s\n", p)
				}
			}
			if st.Unstaged.Empty() && len(st.Untracked) == 0 {
				fmt.Fprintln(out, "nothing else to add")
			}
			return nil
		},
	}
}

func printChanges(out io.Writer, c repo.Changes) {
	for _, p := range c.Added {
		fmt.Fprintf(out, "      added: %s\n", p)
	}
	for _, p := range c.Modified {
		fmt.Fprintf(out, "      modified: %s\n", p)
	}
	for _, p := range c.Deleted {
		fmt.Fprintf(out, "      deleted: %s\n", p)
	}
}
