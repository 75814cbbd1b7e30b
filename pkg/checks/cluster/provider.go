// Package cluster holds the cluster wide checks
package cluster

import "github.com/opnfv/kube-node-validator/pkg/validation"

// GetChecks returns the cluster wide checks
func GetChecks() []validation.Check {
	return []validation.Check{
		NewKubernetesAPIsCheck(),
	}
}
