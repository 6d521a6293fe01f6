package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/eikasia30/gitqlite/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsFilesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ls-files",
		Short: "List staged paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			defer r.Close()

			ix, err := r.ReadIndex()
			if err != nil {
				return err
			}

			paths := ix.Paths()
			sort.Strings(paths)

			out := cmd.OutOrStdout()
			for _, p := range paths {
				for _, e := range ix.Entries[p] {
					fmt.Fprintln(out, p)
					if !verbose {
						continue
					}
					fmt.Fprintf(out, "    %s with perm %o\n", e.Kind, e.Perms)
					fmt.Fprintf(out, "    on blob: %s\n", e.BlobID)
					fmt.Fprintf(out, "    created on %s, last modified on %s\n",
						time.Unix(0, e.Ctime).Format(time.RFC3339Nano),
						time.Unix(0, e.Mtime).Format(time.RFC3339Nano))
					fmt.Fprintf(out, "    device %d, inode %d\n", e.Dev, e.Ino)
					fmt.Fprintf(out, "    user %d, group %d\n", e.UID, e.GID)
					fmt.Fprintf(out, "    flags: stage=%d, assume_valid=%t\n", e.Stage, e.AssumeValid)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show staged metadata for each path")
	return cmd
}
