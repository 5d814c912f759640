package main

import (
	"fmt"

	"github.com/danwg/dvcs/pkg/config"
	"github.com/danwg/dvcs/pkg/repo"
	"github.com/danwg/dvcs/pkg/syncengine"
	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	var all bool
	var force bool

	cmd := &cobra.Command{
		Use:   "push [path] [branch]",
		Short: "Push commits to a peer repository",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, args, all, force, syncengine.Push)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "sync every branch")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "override a non-fast-forward rejection")
	return cmd
}

func runSync(cmd *cobra.Command, args []string, all, force bool, op func(local, remote *repo.Repo, branch string, all, force bool) ([]syncengine.BranchReport, error)) error {
	path := config.DefaultRemoteAlias
	branch := ""
	if len(args) > 0 {
		path = args[0]
	}
	if len(args) > 1 {
		branch = args[1]
	}

	local, err := repo.Open(".")
	if err != nil {
		return err
	}
	peer, err := local.ResolvePeer(path, config.DefaultRemoteAlias)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), process(fmt.Sprintf("syncing with %s", peer.Root)))
	reports, err := op(local, peer, branch, all, force)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range reports {
		switch {
		case r.Message != "":
			fmt.Fprintln(out, fmt.Sprintf("  %s: %s", r.Branch, r.Message))
		default:
			fmt.Fprintln(out, fmt.Sprintf("  %s: now at %s", r.Branch, r.NewHead))
		}
	}
	fmt.Fprintln(out, success("sync complete"))
	return nil
}
