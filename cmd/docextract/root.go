package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the docextract command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docextract",
		Short:         "Extract tabular records from documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newBatchCmd(), newServeCmd())
	return root
}
