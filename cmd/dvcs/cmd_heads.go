package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/repo"
	"github.com/spf13/cobra"
)

func newHeadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heads [dir]",
		Short: "Show every branch's tip commit",
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

			fmt.Fprintln(cmd.OutOrStdout(), process("collecting branch heads"))
			records, err := r.Heads()
			if err != nil {
				return err
			}

			m, err := r.LoadMetadata()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, success("heads"))
			for _, rec := range records {
				label := fmt.Sprintf("origin/%s", rec.Branch)
				if rec.Branch == m.Head {
					label = fmt.Sprintf("HEAD -> %s, origin/%s", rec.Branch, rec.Branch)
				}
				fmt.Fprintf(out, "  %s  %s  %s\n", rec.CommitID, label, rec.Message)
			}
			fmt.Fprintln(out, success("done"))
			return nil
		},
	}
}
