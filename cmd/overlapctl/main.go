// Package main implements overlapctl, a CLI that compares documents locally
// without a running overlap server.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/overlap/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "overlapctl",
		Short: "Pairwise document similarity from the command line",
		Long: `overlapctl scores every pair of the given documents by cosine similarity
of TF-IDF vectors and prints the pairs that meet a threshold.`,
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.AddCommand(newCompareCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	}
}
