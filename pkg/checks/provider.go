/*
This file acts as the registry for all node validation checks. It includes:

- The ordered list of implemented checks run by validateAll
- The known test cases that cannot run and the message reported for them
- Category based accessors used by the command line
*/

package checks

import (
	"github.com/opnfv/kube-node-validator/pkg/checks/cluster"
	"github.com/opnfv/kube-node-validator/pkg/checks/hardware"
	"github.com/opnfv/kube-node-validator/pkg/checks/platform"
	"github.com/opnfv/kube-node-validator/pkg/checks/resources"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// Registry returns every implemented check in the order they run
func Registry() []validation.Check {
	return []validation.Check{
		platform.NewAnuketProfileLabelsCheck(),
		platform.NewLinuxDistributionCheck(),
		cluster.NewKubernetesAPIsCheck(),
		platform.NewLinuxKernelVersionCheck(),
		resources.NewHugepagesCheck(),
		hardware.NewSMTCheck(),
		hardware.NewPhysicalStorageCheck(),
		resources.NewStorageQuantityCheck(),
		resources.NewVcpuQuantityCheck(),
		hardware.NewCPUPinningCheck(),
		platform.NewNFDCheck(),
		hardware.NewSystemResourceReservationCheck(),
		hardware.NewRTCheck(),
	}
}

// Unsupported returns the test cases that are known but cannot be run,
// mapped to the message reported instead of a result
func Unsupported() map[types.CheckName]string {
	return map[types.CheckName]string{
		types.CheckSecurityGroups: "Testcase validateSecurityGroups not implemented.",
		types.CheckTSN:            "Current testcase validateTSN doesn't work with virtual networking.",
	}
}

// ByCategory returns the registered checks of a category
func ByCategory(category types.Category) []validation.Check {
	switch category {
	case types.CategoryPlatform:
		return platform.GetChecks()
	case types.CategoryCluster:
		return cluster.GetChecks()
	case types.CategoryResources:
		return resources.GetChecks()
	case types.CategoryHardware:
		return hardware.GetChecks()
	default:
		return nil
	}
}

// Names returns the names of all runnable test cases, followed by the
// unsupported ones
func Names() []types.CheckName {
	var names []types.CheckName
	for _, c := range Registry() {
		names = append(names, c.Name())
	}
	return append(names, types.CheckSecurityGroups, types.CheckTSN)
}
