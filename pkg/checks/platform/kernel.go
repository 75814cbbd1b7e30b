package platform

import (
	"context"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
	"k8s.io/apimachinery/pkg/util/version"
)

// LinuxKernelVersionCheck checks the minimum kernel version of the nodes
type LinuxKernelVersionCheck struct {
	validation.BaseCheck
}

// NewLinuxKernelVersionCheck creates a new kernel version check
func NewLinuxKernelVersionCheck() *LinuxKernelVersionCheck {
	return &LinuxKernelVersionCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckLinuxKernelVersion, types.CategoryPlatform),
	}
}

// Run executes the check
func (c *LinuxKernelVersionCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	minimum := version.MajorMinor(uint(max(env.Params.MinMajor, 0)), uint(max(env.Params.MinMinor, 0)))

	for _, name := range env.Nodes {
		node, err := env.Node(ctx, name)
		if err != nil {
			rec.APIError(name, err)
			continue
		}

		debug := "kernel=" + node.KernelVersion
		v, err := version.ParseGeneric(node.KernelVersion)
		if err != nil {
			rec.Record(name, false, debug)
			continue
		}
		rec.Record(name, v.AtLeast(minimum), debug)
	}
}
