/*
This file provides the build information of the validator, embedded
during build time via ldflags:

	-X github.com/opnfv/kube-node-validator/pkg/version.Version=...
*/

package version

import "fmt"

var (
	// Version is the release of the validator
	Version = "0.1.0-dev"

	// GitCommit is the commit the binary was built from
	GitCommit = "unknown"
)

// String returns the version line printed by the version command
func String() string {
	return fmt.Sprintf("kube-node-validator %s (commit %s)", Version, GitCommit)
}
