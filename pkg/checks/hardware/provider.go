// Package hardware holds the checks evaluating facts printed by the probe pods
package hardware

import (
	"context"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// GetChecks returns the probe based checks
func GetChecks() []validation.Check {
	return []validation.Check{
		NewSMTCheck(),
		NewPhysicalStorageCheck(),
		NewCPUPinningCheck(),
		NewSystemResourceReservationCheck(),
		NewRTCheck(),
	}
}

// probeLogs reads the probe logs of a daemonset, recording read failures
func probeLogs(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder, key types.DaemonSetKey) validation.NodeProbes {
	probes, err := env.ProbeLogs(ctx, key)
	if err != nil {
		rec.EngineError(err)
	}
	return probes
}
