package main

import (
	"fmt"
	"strings"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add paths...",
		Short: "Stage files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("staging %s", strings.Join(args, " "))))
			if err := r.Add(args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success("staged"))
			return nil
		},
	}
}
