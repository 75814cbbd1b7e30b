package platform

import (
	"context"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// LinuxDistributionCheck checks the node OS image against the supported distributions
type LinuxDistributionCheck struct {
	validation.BaseCheck
}

// NewLinuxDistributionCheck creates a new Linux distribution check
func NewLinuxDistributionCheck() *LinuxDistributionCheck {
	return &LinuxDistributionCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckLinuxDistribution, types.CategoryPlatform),
	}
}

// Run executes the check
func (c *LinuxDistributionCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	for _, name := range env.Nodes {
		node, err := env.Node(ctx, name)
		if err != nil {
			rec.APIError(name, err)
			continue
		}

		supported := false
		for _, distro := range env.Params.DistroNames {
			if distro.Name != "" && strings.Contains(node.OSImage, distro.Name) {
				supported = true
				break
			}
		}
		rec.Record(name, supported, "linux="+node.OSImage)
	}
}
