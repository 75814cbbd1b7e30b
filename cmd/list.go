package cmd

import (
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/opnfv/kube-node-validator/pkg/checks"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/spf13/cobra"
)

// listCmd prints the test cases accepted by --test
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available test cases by category",
	Run: func(cmd *cobra.Command, args []string) {
		printTestCases(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// printTestCases renders one row per test case with the probes it deploys
func printTestCases(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"CATEGORY", "TEST CASE", "PROBES", "NOTE"})

	categories := []types.Category{
		types.CategoryPlatform,
		types.CategoryCluster,
		types.CategoryResources,
		types.CategoryHardware,
	}
	for _, category := range categories {
		for _, c := range checks.ByCategory(category) {
			var probes []string
			for _, key := range c.DaemonSets() {
				probes = append(probes, string(key))
			}
			t.AppendRow(table.Row{category, c.Name(), strings.Join(probes, ", "), ""})
		}
	}

	unsupported := checks.Unsupported()
	names := make([]string, 0, len(unsupported))
	for name := range unsupported {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		t.AppendRow(table.Row{"-", name, "", unsupported[types.CheckName(name)]})
	}

	t.Render()
}
