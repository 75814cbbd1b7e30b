package resources

import (
	"context"
	"fmt"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
	corev1 "k8s.io/api/core/v1"
)

// VcpuQuantityCheck checks the CPU capacity of the nodes
type VcpuQuantityCheck struct {
	validation.BaseCheck
}

// NewVcpuQuantityCheck creates a new vCPU quantity check
func NewVcpuQuantityCheck() *VcpuQuantityCheck {
	return &VcpuQuantityCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckVcpuQuantity, types.CategoryResources),
	}
}

// Run executes the check
func (c *VcpuQuantityCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	for _, name := range env.Nodes {
		node, err := env.Node(ctx, name)
		if err != nil {
			rec.APIError(name, err)
			continue
		}

		q, ok := node.CapacityQuantity(corev1.ResourceCPU)
		if !ok {
			rec.Record(name, false, "cpu=missing")
			continue
		}
		cpus := q.Value()
		passed := env.Params.Limit != nil && cpus >= int64(*env.Params.Limit)
		rec.Record(name, passed, fmt.Sprintf("cpu=%d", cpus))
	}
}
