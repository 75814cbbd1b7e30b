package hardware

import (
	"context"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/probe"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// SystemResourceReservationCheck checks that processes such as the kubelet
// run with their resource reservation flags
type SystemResourceReservationCheck struct {
	validation.BaseCheck
}

// NewSystemResourceReservationCheck creates a new system resource reservation check
func NewSystemResourceReservationCheck() *SystemResourceReservationCheck {
	return &SystemResourceReservationCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckSystemResourceReservation, types.CategoryHardware, types.DaemonSetReserve),
	}
}

// Run executes the check. Every configured process and flag pair must
// appear on one line of the process listing.
func (c *SystemResourceReservationCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	probes := probeLogs(ctx, env, rec, types.DaemonSetReserve)

	for _, name := range env.Nodes {
		pod, ok := probes.Last(name)
		if !ok {
			rec.Record(name, false, "not found")
			continue
		}
		passed, debug := evaluateReservation(pod.Log.Strings(probe.ProcessList), env.Params.Checks)
		rec.Record(name, passed, debug)
	}
}

// evaluateReservation reports whether the processes of a node carry the
// configured reservation flags. Every configured pair must match: a kubelet
// started with --system-reserved alone fails when kube-reserved is also
// configured.
func evaluateReservation(commands []string, checks []config.ProcessFlag) (bool, string) {
	satisfied := make([]bool, len(checks))
	var matched []string
	for _, cmd := range commands {
		relevant := false
		for i, ch := range checks {
			if ch.Process == "" || !strings.Contains(cmd, ch.Process) {
				continue
			}
			relevant = true
			if strings.Contains(cmd, "--"+ch.Flag) {
				satisfied[i] = true
			}
		}
		if relevant {
			matched = append(matched, cmd)
		}
	}

	debug := "not found"
	if len(matched) > 0 {
		debug = "command=" + strings.Join(matched, ", ")
	}
	if len(checks) == 0 {
		return false, debug
	}
	for _, ok := range satisfied {
		if !ok {
			return false, debug
		}
	}
	return true, debug
}
