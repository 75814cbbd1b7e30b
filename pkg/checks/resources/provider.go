// Package resources holds the checks evaluating node capacity and
// allocatable resources
package resources

import "github.com/opnfv/kube-node-validator/pkg/validation"

// GetChecks returns the resource checks
func GetChecks() []validation.Check {
	return []validation.Check{
		NewHugepagesCheck(),
		NewStorageQuantityCheck(),
		NewVcpuQuantityCheck(),
	}
}
