package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch name",
		Short: "Create and check out a new branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("creating branch %s", args[0])))
			if err := r.InitBranch(args[0], false); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("switched to new branch %s", args[0])))
			return nil
		},
	}
}
