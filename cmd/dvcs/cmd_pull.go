package main

import (
	"github.com/danwg/dvcs/pkg/syncengine"
	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	var all bool
	var force bool

	cmd := &cobra.Command{
		Use:   "pull [path] [branch]",
		Short: "Pull commits from a peer repository",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, args, all, force, syncengine.Pull)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "sync every branch")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "override a non-fast-forward rejection")
	return cmd
}
