package main

import (
	"fmt"

	"github.com/eikasia30/gitqlite/pkg/object"
	"github.com/eikasia30/gitqlite/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-file <blob|tree|commit> <object-id>",
		Short: "Print the content of a stored object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			defer r.Close()

			id, err := object.ParseID(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch args[0] {
			case "blob":
				b, err := r.ReadBlob(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", b.Data)
			case "tree":
				t, err := r.ReadTree(id)
				if err != nil {
					return err
				}
				for _, e := range t.Entries {
					fmt.Fprintf(out, "%s %s %s    %s\n", e.Mode, e.Kind, e.ID, e.Name)
				}
			case "commit":
				c, err := r.ReadCommit(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "tree %s\n", c.TreeID)
				for _, p := range c.ParentIDs {
					fmt.Fprintf(out, "parent %s\n", p)
				}
				fmt.Fprintf(out, "author %s <%s>\n", c.AuthorName, c.AuthorEmail)
				fmt.Fprintf(out, "committer %s <%s>\n", c.CommitterName, c.CommitterEmail)
				fmt.Fprintf(out, "\n%s\n", c.Message)
			default:
				return fmt.Errorf("unknown object type %q", args[0])
			}
			return nil
		},
	}
}
