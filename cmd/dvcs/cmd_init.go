package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("initializing repository at %s", dir)))
			r, err := repo.Init(dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("initialized empty repository at %s", r.Root)))
			return nil
		},
	}
}
