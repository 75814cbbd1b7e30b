package hardware

import (
	"context"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// PhysicalStorageCheck checks that an SSD is attached to the nodes. It
// assumes no hypervisor masks the device type.
type PhysicalStorageCheck struct {
	validation.BaseCheck
}

// NewPhysicalStorageCheck creates a new physical storage check
func NewPhysicalStorageCheck() *PhysicalStorageCheck {
	return &PhysicalStorageCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckPhysicalStorage, types.CategoryHardware, types.DaemonSetMulti),
	}
}

// Run executes the check
func (c *PhysicalStorageCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	probes := probeLogs(ctx, env, rec, types.DaemonSetMulti)

	for _, name := range env.Nodes {
		pod, ok := probes.Last(name)
		if !ok {
			rec.Record(name, false, "")
			continue
		}

		devices := pod.Log.PCIDevices()
		ssd := false
		for _, dev := range devices {
			if strings.Contains(dev, "SSD") {
				ssd = true
				break
			}
		}
		rec.Record(name, ssd, strings.Join(devices, ", "))
	}
}
