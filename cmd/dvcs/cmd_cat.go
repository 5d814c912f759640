package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat commit path",
		Short: "Print a revision's snapshot of a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("reading %s at %s", args[1], args[0])))
			data, err := r.Cat(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, success("cat"))
			out.Write(data)
			fmt.Fprintln(out, success("done"))
			return nil
		},
	}
}
