/*
This file implements the engine running validation checks. It:

- loads the configuration and connects to the cluster
- selects the nodes under validation
- resolves the requested test case against the check registry
- prepares the working namespace and the probe daemonsets the checks need
- evaluates the checks sequentially with a progress bar
- tears the working namespace down and stamps the report

Every failure ends up in the report; the engine never aborts the process.
*/

package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/opnfv/kube-node-validator/pkg/cluster"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/logging"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// ErrNotInitialized is returned when the engine has no configuration or no cluster connection
var ErrNotInitialized = errors.New("engine not initialized")

// Options defines the configuration of the engine
type Options struct {
	// ConfigFile is read when Config is nil
	ConfigFile string

	// Config is an already loaded configuration
	Config *config.Config

	// Connect opens the cluster gateway
	Connect func() (cluster.Gateway, error)

	// Selection restricts the nodes under validation
	Selection cluster.Selection

	// Debug adds the extracted facts to every node result
	Debug bool

	// Checks is the ordered check registry
	Checks []Check

	// Unsupported maps known test cases that cannot run to their error message
	Unsupported map[types.CheckName]string

	// CheckTimeout is the maximum time allowed for one check, zero for none
	CheckTimeout time.Duration

	// SkipProgressBar disables the progress bar
	SkipProgressBar bool

	// ProgressWriter receives the progress bar, stderr when nil
	ProgressWriter io.Writer

	// Metrics records check durations when set
	Metrics *Metrics

	// Now returns the current time, time.Now when nil
	Now func() time.Time
}

// Engine validates the selected nodes of a cluster
type Engine struct {
	opts         Options
	config       *config.Config
	gateway      cluster.Gateway
	orchestrator *cluster.Orchestrator
	nodes        []string
	ready        bool
	assembler    *Assembler
	progressBar  *progressbar.ProgressBar
	log          *logrus.Entry
}

// NewEngine loads the configuration, connects to the cluster and selects
// the nodes. Failures leave the engine not ready with the error recorded
// in its report.
func NewEngine(ctx context.Context, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ProgressWriter == nil {
		opts.ProgressWriter = os.Stderr
	}

	e := &Engine{
		opts:      opts,
		assembler: NewAssembler(config.Show{}, opts.Debug),
		log:       logging.For("engine"),
	}

	e.config = opts.Config
	if e.config == nil {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			e.assembler.AddError(err)
			return e
		}
		e.config = cfg
	}
	e.assembler.SetShow(e.config.Script.Show)

	if opts.Connect == nil {
		e.assembler.AddError(fmt.Errorf("Failed to load kube config: no cluster connection"))
		return e
	}
	gw, err := opts.Connect()
	if err != nil {
		e.assembler.AddError(fmt.Errorf("Failed to load kube config: %w", err))
		return e
	}
	e.gateway = gw
	e.orchestrator = cluster.NewOrchestrator(gw, cluster.OrchestratorConfigFrom(e.config))

	nodes, err := cluster.SelectNodes(ctx, gw, opts.Selection)
	if err != nil {
		e.assembler.AddError(err)
		return e
	}
	e.nodes = nodes
	e.ready = true
	return e
}

// Ready reports whether checks can run
func (e *Engine) Ready() bool {
	return e.ready
}

// Nodes returns the selected node names
func (e *Engine) Nodes() []string {
	return e.nodes
}

// Namespace returns the working namespace, empty without configuration
func (e *Engine) Namespace() string {
	if e.config == nil {
		return ""
	}
	return e.config.Script.PodNamespace
}

// Report returns the report built so far
func (e *Engine) Report() *Report {
	return e.assembler.Report()
}

// DeleteNamespace only tears the working namespace down
func (e *Engine) DeleteNamespace(ctx context.Context) error {
	if e.orchestrator == nil {
		return fmt.Errorf("%w: %s", ErrNotInitialized, e.assembler.Report().StackValidation.Error)
	}
	return e.orchestrator.DeleteNamespace(ctx)
}

// Run executes the named test case, every registered check when test is
// empty or validateAll, and returns the report. Each run starts a new report.
func (e *Engine) Run(ctx context.Context, test string) *Report {
	if !e.ready {
		return e.assembler.Report()
	}
	e.assembler = NewAssembler(e.config.Script.Show, e.opts.Debug)
	start := e.opts.Now()
	defer func() {
		e.assembler.Stamp(start, e.opts.Now())
	}()

	checks, err := e.resolve(test)
	if err != nil {
		e.assembler.AddError(err)
		return e.assembler.Report()
	}

	var probes ProbeSource
	needed := neededDaemonSets(checks)
	if len(needed) > 0 {
		if err := e.deploy(ctx, needed); err != nil {
			e.assembler.AddError(err)
			return e.assembler.Report()
		}
		probes = e.orchestrator
	}

	e.runSequential(ctx, checks, probes)

	if len(needed) > 0 {
		if err := e.orchestrator.DeleteNamespace(ctx); err != nil {
			e.assembler.AddError(err)
		}
	}

	if e.assembler.HasErrors() {
		e.log.WithField("test", test).Warn("run finished with errors")
	}
	report := e.assembler.Report()
	if e.opts.Metrics != nil {
		e.opts.Metrics.Collect(report)
	}
	return report
}

// resolve maps a test name to the checks to run
func (e *Engine) resolve(test string) ([]Check, error) {
	name := types.CheckName(test)
	if name == "" || name == types.CheckAll {
		if len(e.opts.Checks) == 0 {
			return nil, errors.New("no checks registered")
		}
		return e.opts.Checks, nil
	}

	for _, check := range e.opts.Checks {
		if check.Name() == name {
			return []Check{check}, nil
		}
	}
	if msg, ok := e.opts.Unsupported[name]; ok {
		return nil, errors.New(msg)
	}
	return nil, fmt.Errorf("Cannot find testcase %s.", test)
}

// neededDaemonSets returns the daemonsets required by the checks in deployment order
func neededDaemonSets(checks []Check) []types.DaemonSetKey {
	required := make(map[types.DaemonSetKey]bool)
	for _, check := range checks {
		for _, key := range check.DaemonSets() {
			required[key] = true
		}
	}

	var keys []types.DaemonSetKey
	for _, key := range types.DaemonSetKeys {
		if required[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

// deploy prepares the working namespace and the probe daemonsets. Only a
// namespace already holding pods stops the run; other failures are
// recorded and the checks fail closed.
func (e *Engine) deploy(ctx context.Context, keys []types.DaemonSetKey) error {
	if err := e.orchestrator.EnsureNamespace(ctx); err != nil {
		e.assembler.AddError(err)
	}
	if err := e.orchestrator.VerifyEmpty(ctx); err != nil {
		return err
	}

	for _, key := range keys {
		if err := e.orchestrator.Apply(ctx, key); err != nil {
			e.log.WithError(err).Warnf("failed to apply daemonset %s", key)
			e.assembler.AddError(err)
		}
	}

	var s *spinner.Spinner
	if !e.opts.SkipProgressBar {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(e.opts.ProgressWriter))
		s.Suffix = " Waiting for probe pods..."
		s.Start()
	}
	err := e.orchestrator.WaitReady(ctx)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		e.log.WithError(err).Warn("probe pods not ready")
		e.assembler.AddError(err)
	}
	return nil
}

// runSequential evaluates the checks in order
func (e *Engine) runSequential(ctx context.Context, checks []Check, probes ProbeSource) {
	if !e.opts.SkipProgressBar {
		fmt.Fprintln(e.opts.ProgressWriter, "Node validation in progress ...")
		e.progressBar = progressbar.NewOptions(len(checks),
			progressbar.OptionSetWriter(e.opts.ProgressWriter),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerPadding: " ",
				BarStart:      "|",
				BarEnd:        "|",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(e.opts.ProgressWriter)
			}),
		)
	}

	for _, check := range checks {
		e.runCheck(ctx, check, probes)

		if e.progressBar != nil {
			_ = e.progressBar.Add(1)
		}
	}
}

// runCheck evaluates a single check
func (e *Engine) runCheck(ctx context.Context, check Check, probes ProbeSource) {
	params, ok := e.config.TestCase(check.Name())
	if !ok {
		e.log.Warnf("no configuration for test case %s", check.Name())
	}
	rec := e.assembler.Begin(check.Name(), params)
	env := &Env{
		Gateway: e.gateway,
		Probes:  probes,
		Nodes:   e.nodes,
		Params:  params,
	}

	if e.opts.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.CheckTimeout)
		defer cancel()
	}

	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil {
			rec.EngineError(fmt.Errorf("check %s failed: %v", check.Name(), r))
		}
		elapsed := time.Since(startTime)
		if e.opts.Metrics != nil {
			e.opts.Metrics.ObserveDuration(rec.Name(), elapsed)
		}
		e.log.WithField("check", check.Name()).Debugf("finished in %s", elapsed)
	}()

	check.Run(ctx, env, rec)
}
