package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "dvcs",
		Short: "A filesystem-synchronized distributed version-control engine",
	}

	root.AddCommand(newInitCmd())
	root.AddCommand(newCloneCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newHeadsCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newCatCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newPushCmd())
	root.AddCommand(newPullCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure(err.Error()))
		os.Exit(1)
	}
}
