package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opnfv/kube-node-validator/pkg/logging"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/utils"
	"github.com/opnfv/kube-node-validator/pkg/validation"
	"github.com/spf13/cobra"
)

const (
	resultFile = "result.json"
	errorFile  = "error.txt"
)

var (
	resultsDir      string
	archiveResults  bool
	archivePassword string
)

// testcaseCmd runs one test case the way a test harness expects: the report
// goes to a results directory and the exit code carries the verdict
var testcaseCmd = &cobra.Command{
	Use:   "testcase",
	Short: "Run one test case and store its result in a results directory",
	Long: `This command runs a single test case, writes the JSON report to
result.json in the results directory and exits with 0 when every node passed
or 1 otherwise. Without a test case name, error.txt is written instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := loadOptions()
		opts.format = string(types.FormatJSON)
		logging.Init(opts.verbose, os.Stderr)

		if err := validateFlags(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		code, err := runTestcase(cmd.Context(), opts, resultsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if archiveResults {
			zipPath := filepath.Clean(resultsDir) + ".zip"
			if err := utils.ArchiveDirectory(resultsDir, zipPath, archivePassword); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to archive results: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "Results archived at: %s\n", zipPath)
			}
		}

		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(testcaseCmd)

	testcaseCmd.Flags().StringVar(&resultsDir, "results-dir", "res", "Directory where result.json is written")
	testcaseCmd.Flags().BoolVar(&archiveResults, "archive", false, "Archive the results directory into a zip file")
	testcaseCmd.Flags().StringVar(&archivePassword, "archive-password", "", "Encrypt the archive entries with this password")
}

// runTestcase runs the selected test case and returns the exit code
func runTestcase(ctx context.Context, opts options, dir string) (int, error) {
	if err := utils.CreateDirIfNotExists(dir); err != nil {
		return 1, fmt.Errorf("failed to create results directory: %w", err)
	}

	if opts.test == "" {
		msg := fmt.Sprintf("Error: no name or nonexistent test case name given in args: test=%q debug=%t label=%q node=%q",
			opts.test, opts.debug, opts.label, opts.node)
		if err := utils.SafeWriteFile(filepath.Join(dir, errorFile), []byte(msg), 0644); err != nil {
			return 1, err
		}
		return 1, nil
	}

	opts.output = filepath.Join(dir, resultFile)
	report, err := runValidation(ctx, opts, os.Stdout)
	if err != nil {
		return 1, err
	}

	if !validation.Passed(report) {
		return 1, nil
	}
	return 0, nil
}
