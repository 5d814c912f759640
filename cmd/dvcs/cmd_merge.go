package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/mergeengine"
	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge branch_or_rev [into_rev] [msg]",
		Short: "Merge a branch or revision into the current branch and commit",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from := args[0]
			into := ""
			message := fmt.Sprintf("merge %s", from)
			if len(args) > 1 {
				into = args[1]
			}
			if len(args) > 2 {
				message = args[2]
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("merging %s", from)))
			res, err := mergeengine.Merge(r, into, r, from, message)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.HasConflict {
				fmt.Fprintln(out, success(fmt.Sprintf("merged %s into commit %s with conflicts in:", from, res.CommitID)))
				for _, p := range res.Conflicted {
					fmt.Fprintf(out, "  %s\n", p)
				}
			} else {
				fmt.Fprintln(out, success(fmt.Sprintf("merged %s into commit %s", from, res.CommitID)))
			}
			return nil
		},
	}
}
