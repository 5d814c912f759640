package main

import (
	"fmt"
	"strings"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove paths...",
		Short: "Unstage files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("unstaging %s", strings.Join(args, " "))))
			if err := r.Remove(args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success("unstaged"))
			return nil
		},
	}
}
