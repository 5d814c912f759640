package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout branch_or_commit",
		Short: "Restore the working tree to a branch or revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("checking out %s", args[0])))
			if err := r.Checkout(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("checked out %s", args[0])))
			return nil
		},
	}
}
