package hardware

import (
	"context"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/probe"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// CPUPinningCheck checks that the kubelet static CPU manager policy
// restricts the cpuset of a guaranteed pod
type CPUPinningCheck struct {
	validation.BaseCheck
}

// NewCPUPinningCheck creates a new CPU pinning check
func NewCPUPinningCheck() *CPUPinningCheck {
	return &CPUPinningCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckCPUPinning, types.CategoryHardware, types.DaemonSetMulti),
	}
}

// Run executes the check
func (c *CPUPinningCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	probes := probeLogs(ctx, env, rec, types.DaemonSetMulti)

	for _, name := range env.Nodes {
		pod, ok := probes.Last(name)
		if !ok {
			rec.Record(name, false, "")
			continue
		}

		var debug []string
		for _, m := range []string{probe.AllRange, probe.CPUSetCPUs} {
			if v, ok := pod.Log.String(m); ok {
				debug = append(debug, m+"="+v)
			}
		}
		limited, ok := pod.Log.Int(probe.CPUSetLimited)
		rec.Record(name, ok && limited == 1, strings.Join(debug, ", "))
	}
}
