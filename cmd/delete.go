package cmd

import (
	"fmt"
	"os"

	"github.com/opnfv/kube-node-validator/pkg/logging"
	"github.com/opnfv/kube-node-validator/pkg/version"
	"github.com/spf13/cobra"
)

// deleteCmd removes the working namespace left behind by an interrupted run
var deleteCmd = &cobra.Command{
	Use:   "delete-ns",
	Short: "Delete the working namespace and its probe daemonsets",
	Run: func(cmd *cobra.Command, args []string) {
		opts := loadOptions()
		logging.Init(opts.verbose, os.Stderr)

		if err := deleteNamespace(cmd.Context(), opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting namespace: %v\n", err)
			os.Exit(1)
		}
	},
}

// versionCmd prints the build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the validator",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(versionCmd)
}
