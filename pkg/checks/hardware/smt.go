package hardware

import (
	"context"
	"strconv"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/probe"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// SMTCheck checks that the vCPU count matches the CPU topology read from
// /proc/cpuinfo. It assumes no hypervisor emulates SMT.
type SMTCheck struct {
	validation.BaseCheck
}

// NewSMTCheck creates a new SMT check
func NewSMTCheck() *SMTCheck {
	return &SMTCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckSMT, types.CategoryHardware, types.DaemonSetMulti),
	}
}

// Run executes the check
func (c *SMTCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	probes := probeLogs(ctx, env, rec, types.DaemonSetMulti)

	for _, name := range env.Nodes {
		pod, ok := probes.Last(name)
		if !ok {
			rec.Record(name, false, "")
			continue
		}
		passed, debug := evaluateSMT(pod.Log)
		rec.Record(name, passed, debug)
	}
}

// evaluateSMT compares vcpus with sockets x corespersocket x threadspercore.
// Any missing factor fails.
func evaluateSMT(log *probe.Log) (bool, string) {
	markers := []string{probe.VCPUs, probe.ThreadsPerCore, probe.CoresPerSocket, probe.Sockets}
	values := make(map[string]int, len(markers))
	var debug []string
	for _, m := range markers {
		if n, ok := log.Int(m); ok {
			values[m] = n
			debug = append(debug, m+"="+strconv.Itoa(n))
		}
	}

	if len(values) != len(markers) {
		return false, strings.Join(debug, ", ")
	}
	topology := values[probe.Sockets] * values[probe.CoresPerSocket] * values[probe.ThreadsPerCore]
	return values[probe.VCPUs] == topology, strings.Join(debug, ", ")
}
