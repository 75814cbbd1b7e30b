/*
This application validates that the nodes of a Kubernetes cluster provide the
features expected by telco workloads. It verifies the following aspects:

- Platform: Anuket profile labels, Linux distribution, kernel version and node feature discovery labels.
- Cluster: No alpha or beta Kubernetes APIs are served.
- Resources: Hugepages, ephemeral storage and vCPU quantities.
- Hardware: SMT topology, SSD presence, CPU pinning, kubelet reservations and real-time settings, read from probe daemonsets.

The result is a JSON document listing a verdict per test case and node.
*/

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/opnfv/kube-node-validator/pkg/checks"
	"github.com/opnfv/kube-node-validator/pkg/cluster"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/logging"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/utils"
	"github.com/opnfv/kube-node-validator/pkg/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings holds the flags after environment overrides were applied
var settings = viper.New()

// envFile may set VALIDATOR_* variables that are not already exported
var envFile string

// options are the resolved command line settings
type options struct {
	configFile      string
	kubeconfig      string
	test            string
	label           string
	node            string
	debug           bool
	deleteNS        bool
	output          string
	format          string
	metricsFile     string
	timeout         int
	skipProgressBar bool
	verbose         bool
}

// loadOptions reads the flags through viper so VALIDATOR_* variables apply
func loadOptions() options {
	return options{
		configFile:      settings.GetString("config"),
		kubeconfig:      settings.GetString("kubeconfig"),
		test:            settings.GetString("test"),
		label:           settings.GetString("label"),
		node:            settings.GetString("node"),
		debug:           settings.GetBool("debug"),
		deleteNS:        settings.GetBool("delete-ns"),
		output:          settings.GetString("output"),
		format:          settings.GetString("format"),
		metricsFile:     settings.GetString("metrics-file"),
		timeout:         settings.GetInt("timeout"),
		skipProgressBar: settings.GetBool("no-progress"),
		verbose:         settings.GetBool("verbose"),
	}
}

// connectCluster opens the gateway of the cluster the kubeconfig points to
var connectCluster = func(kubeconfig string) (cluster.Gateway, error) {
	client, err := utils.GetClientSet(kubeconfig)
	if err != nil {
		return nil, err
	}
	return cluster.NewKubeGateway(client), nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "node-validator",
	Short: "Validates the node features of a Kubernetes cluster",
	Long: `This application validates the nodes of a Kubernetes cluster against the
expectations of telco workloads. Probe daemonsets are deployed in a working
namespace to collect hardware facts, and a JSON report with one verdict per
test case and node is printed on standard output.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := loadOptions()
		logging.Init(opts.verbose, os.Stderr)

		// Validate flags
		if err := validateFlags(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if opts.deleteNS {
			if err := deleteNamespace(cmd.Context(), opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting namespace: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if _, err := runValidation(cmd.Context(), opts, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		if err := loadDotEnv(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", envFile, err)
		}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "File with VALIDATOR_* environment overrides, ignored when absent")
	flags.String("config", config.DefaultConfigFile, "Configuration file")
	flags.String("kubeconfig", "", "Kubeconfig file (in-cluster, KUBECONFIG or ~/.kube/config when empty)")
	flags.String("test", "", "Test case to run (all test cases when empty)")
	flags.String("label", "", "Validate only nodes carrying this label (key:value)")
	flags.String("node", "", "Validate only this node")
	flags.Bool("debug", false, "Add the extracted facts to every node result")
	flags.Int("timeout", 300, "Timeout for one test case in seconds (0 for no timeout)")
	flags.Bool("no-progress", false, "Disable progress bar")
	flags.Bool("verbose", false, "Enable verbose output")
	flags.String("metrics-file", "", "Write Prometheus text metrics to this file")

	rootCmd.Flags().Bool("delete-ns", false, "Delete the working namespace and exit")
	rootCmd.Flags().String("output", "", "Report file (standard output when empty)")
	rootCmd.Flags().String("format", string(types.FormatJSON), "Report format (json, summary)")

	_ = rootCmd.RegisterFlagCompletionFunc("test", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return testNames(), cobra.ShellCompDirectiveNoFileComp
	})

	settings.SetEnvPrefix(config.EnvPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindPFlags(flags)
	_ = settings.BindPFlags(rootCmd.Flags())
}

// loadDotEnv exports the variables of an env file when it exists
func loadDotEnv(path string) error {
	if path == "" || !utils.FileExists(path) {
		return nil
	}
	return godotenv.Load(path)
}

// testNames lists the values accepted by --test
func testNames() []string {
	names := []string{string(types.CheckAll)}
	for _, name := range checks.Names() {
		names = append(names, string(name))
	}
	return names
}

// validateFlags validates the command line flags
func validateFlags(opts options) error {
	// Validate report format
	validFormats := map[string]bool{
		string(types.FormatJSON):    true,
		string(types.FormatSummary): true,
	}
	if !validFormats[opts.format] {
		return fmt.Errorf("invalid report format: %s (must be one of: json, summary)", opts.format)
	}

	// Validate timeout
	if opts.timeout < 0 {
		return fmt.Errorf("timeout must be greater than or equal to 0")
	}

	if opts.configFile == "" {
		return fmt.Errorf("configuration file cannot be empty")
	}

	if _, err := cluster.ParseLabel(opts.label); err != nil {
		return err
	}

	return nil
}

// newEngine builds the engine for the resolved options
func newEngine(ctx context.Context, opts options, metrics *validation.Metrics) *validation.Engine {
	label, _ := cluster.ParseLabel(opts.label)

	return validation.NewEngine(ctx, validation.Options{
		ConfigFile: opts.configFile,
		Connect: func() (cluster.Gateway, error) {
			return connectCluster(opts.kubeconfig)
		},
		Selection:       cluster.Selection{Label: label, Node: opts.node},
		Debug:           opts.debug,
		Checks:          checks.Registry(),
		Unsupported:     checks.Unsupported(),
		CheckTimeout:    time.Duration(opts.timeout) * time.Second,
		SkipProgressBar: opts.skipProgressBar,
		Metrics:         metrics,
	})
}

// runValidation runs the requested test case and writes the report
func runValidation(ctx context.Context, opts options, stdout io.Writer) (*validation.Report, error) {
	var metrics *validation.Metrics
	if opts.metricsFile != "" {
		metrics = validation.NewMetrics()
	}

	engine := newEngine(ctx, opts, metrics)
	report := engine.Run(ctx, opts.test)

	reporter := validation.NewReporter(validation.ReportConfig{
		Format: types.ReportFormat(opts.format),
		Output: opts.output,
	})
	path, err := reporter.Write(report, stdout)
	if err != nil {
		return report, err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "Report generated at: %s\n", path)
	}

	if metrics != nil {
		if err := metrics.WriteFile(opts.metricsFile); err != nil {
			return report, fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return report, nil
}

// deleteNamespace only tears the working namespace down
func deleteNamespace(ctx context.Context, opts options) error {
	engine := newEngine(ctx, opts, nil)
	if err := engine.DeleteNamespace(ctx); err != nil {
		return err
	}
	logging.For("cmd").Infof("Deleted namespace %s", engine.Namespace())
	return nil
}
