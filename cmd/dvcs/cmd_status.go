package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [dir]",
		Short: "Show working tree status",
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

			fmt.Fprintln(cmd.OutOrStdout(), process("computing status"))
			report, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, success(fmt.Sprintf("On branch %s", report.Branch)))
			fmt.Fprintln(out, report.AheadBehind)

			if len(report.ToBeCommitted) > 0 {
				fmt.Fprintln(out, "\nChanges to be committed:")
				for _, e := range report.ToBeCommitted {
					fmt.Fprintf(out, "  %s: %s\n", e.Kind, e.Path)
				}
			}
			if len(report.NotStaged) > 0 {
				fmt.Fprintln(out, "\nChanges not staged for commit:")
				for _, e := range report.NotStaged {
					fmt.Fprintf(out, "  %s: %s\n", e.Kind, e.Path)
				}
			}
			if len(report.Untracked) > 0 {
				fmt.Fprintln(out, "\nUntracked files:")
				for _, p := range report.Untracked {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}

			fmt.Fprintln(out, success("status complete"))
			return nil
		},
	}
}
