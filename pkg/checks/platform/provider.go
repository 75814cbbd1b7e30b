// Package platform holds the checks evaluating node metadata
package platform

import "github.com/opnfv/kube-node-validator/pkg/validation"

// GetChecks returns the node metadata checks
func GetChecks() []validation.Check {
	return []validation.Check{
		NewAnuketProfileLabelsCheck(),
		NewLinuxDistributionCheck(),
		NewLinuxKernelVersionCheck(),
		NewNFDCheck(),
	}
}
