package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone src [dest]",
		Short: "Copy a repository tree",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			dest := "."
			if len(args) > 1 {
				dest = args[1]
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("cloning %s into %s", src, dest)))
			r, err := repo.Clone(src, dest)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("cloned into %s", r.Root)))
			return nil
		},
	}
}
