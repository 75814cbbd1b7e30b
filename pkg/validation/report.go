/*
This file implements the assembly of the validation report:

- the JSON document layout with string encoded verdicts
- an Assembler owned by one engine run, passed by reference to the checks
- CaseRecorder appending the per node results of one test case
- aggregation of engine level errors into the report error field
*/

package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/types"
)

// TimestampLayout is the layout of the report timestamps
const TimestampLayout = "Mon Jan 02 15:04:05 UTC 2006"

// Verdict is a node result, encoded as the JSON strings "true" and "false"
type Verdict bool

// MarshalJSON encodes the verdict as a string
func (v Verdict) MarshalJSON() ([]byte, error) {
	if v {
		return []byte(`"true"`), nil
	}
	return []byte(`"false"`), nil
}

// UnmarshalJSON accepts the string form as well as plain booleans
func (v *Verdict) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case `"true"`, `true`:
		*v = true
	case `"false"`, `false`:
		*v = false
	default:
		return fmt.Errorf("invalid verdict %s", data)
	}
	return nil
}

// Report is the result document of one run
type Report struct {
	StackValidation StackValidation `json:"stackValidation"`
}

// StackValidation holds the test cases and the run level error
type StackValidation struct {
	TestCases  []*TestCase `json:"testCases,omitempty"`
	TimeStamps *TimeStamps `json:"timeStamps,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// TimeStamps holds the start and stop time of a run
type TimeStamps struct {
	StartTime string `json:"startTime"`
	StopTime  string `json:"stopTime"`
}

// TestCase holds the node results of one check
type TestCase struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	RA2Spec     string        `json:"ra2Spec,omitempty"`
	Nodes       []*NodeResult `json:"nodes"`
}

// NodeResult is the outcome of one check on one node
type NodeResult struct {
	Name   string  `json:"name"`
	Result Verdict `json:"result"`
	Debug  string  `json:"debug,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ParseReport decodes a JSON report
func ParseReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}

// Passed reports whether at least one test case ran and every node passed
func Passed(r *Report) bool {
	if r == nil || len(r.StackValidation.TestCases) == 0 {
		return false
	}
	for _, tc := range r.StackValidation.TestCases {
		for _, n := range tc.Nodes {
			if !n.Result {
				return false
			}
		}
	}
	return true
}

// Assembler builds the report of one run
type Assembler struct {
	report *Report
	show   config.Show
	debug  bool
	errs   *multierror.Error
}

// NewAssembler creates an empty report builder
func NewAssembler(show config.Show, debug bool) *Assembler {
	return &Assembler{
		report: &Report{},
		show:   show,
		debug:  debug,
		errs: &multierror.Error{ErrorFormat: func(es []error) string {
			msgs := make([]string, len(es))
			for i, err := range es {
				msgs[i] = err.Error()
			}
			return strings.Join(msgs, "; ")
		}},
	}
}

// SetShow replaces the display flags once the configuration is known
func (a *Assembler) SetShow(show config.Show) {
	a.show = show
}

// AddError records an engine level error
func (a *Assembler) AddError(err error) {
	if err == nil {
		return
	}
	a.errs = multierror.Append(a.errs, err)
}

// HasErrors reports whether any engine level error was recorded
func (a *Assembler) HasErrors() bool {
	return a.errs.Len() > 0
}

// Begin appends a test case and returns its recorder. Description and
// ra2Spec are copied only when the display flags ask for them.
func (a *Assembler) Begin(name types.CheckName, params config.TestCase) *CaseRecorder {
	tc := &TestCase{Name: string(name), Nodes: []*NodeResult{}}
	if a.show.Description {
		tc.Description = params.Description
	}
	if a.show.RA2Spec {
		tc.RA2Spec = params.RA2Spec
	}
	a.report.StackValidation.TestCases = append(a.report.StackValidation.TestCases, tc)
	return &CaseRecorder{tc: tc, assembler: a}
}

// Stamp records the run times when the display flags ask for them
func (a *Assembler) Stamp(start, stop time.Time) {
	if !a.show.TimeStamps {
		return
	}
	a.report.StackValidation.TimeStamps = &TimeStamps{
		StartTime: start.UTC().Format(TimestampLayout),
		StopTime:  stop.UTC().Format(TimestampLayout),
	}
}

// Report returns the report with the accumulated errors
func (a *Assembler) Report() *Report {
	if a.errs.Len() > 0 {
		a.report.StackValidation.Error = a.errs.Error()
	}
	return a.report
}

// CaseRecorder appends node results to one test case
type CaseRecorder struct {
	tc        *TestCase
	assembler *Assembler
}

// Name returns the test case name
func (r *CaseRecorder) Name() string {
	return r.tc.Name
}

// Nodes returns the results recorded so far
func (r *CaseRecorder) Nodes() []*NodeResult {
	return r.tc.Nodes
}

// Record appends the result of a node. The debug trace is kept in debug mode only.
func (r *CaseRecorder) Record(node string, passed bool, debug string) *NodeResult {
	n := &NodeResult{Name: node, Result: Verdict(passed)}
	if r.assembler.debug {
		n.Debug = debug
	}
	r.tc.Nodes = append(r.tc.Nodes, n)
	return n
}

// Fail appends a failed node result carrying an error message
func (r *CaseRecorder) Fail(node, debug, msg string) *NodeResult {
	n := r.Record(node, false, debug)
	n.Error = msg
	return n
}

// APIError fails a node whose details could not be read and records the
// error at run level
func (r *CaseRecorder) APIError(node string, err error) *NodeResult {
	r.assembler.AddError(fmt.Errorf("Error fetching node details: %w", err))
	return r.Record(node, false, "")
}

// EngineError records a run level error without touching node results
func (r *CaseRecorder) EngineError(err error) {
	r.assembler.AddError(err)
}
