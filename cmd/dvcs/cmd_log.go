package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [dir]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r, err := repo.Open(dir)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), process("collecting history"))
			entries, err := r.Log()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, success("log"))
			for _, e := range entries {
				fmt.Fprintf(out, "  %s  (%s)  %s  %s\n", e.ID, e.BranchLabel, e.Timestamp.Format("2006-01-02 15:04:05"), e.Message)
			}
			fmt.Fprintln(out, success("done"))
			return nil
		},
	}
}
