package config

import (
	"time"

	"github.com/opnfv/kube-node-validator/pkg/types"
)

// Config is the parsed configuration file
type Config struct {
	Script    Script     `mapstructure:"script" json:"script"`
	TestCases []TestCase `mapstructure:"testCases" json:"testCases"`
}

// Script holds the run settings
type Script struct {
	// NamespacePause bounds the wait for the working namespace, in seconds
	NamespacePause int `mapstructure:"namespacePause" json:"namespacePause"`

	// PodPause bounds the wait for probe pods, in seconds
	PodPause int `mapstructure:"podPause" json:"podPause"`

	// PollInterval is the readiness polling period, in seconds
	PollInterval int `mapstructure:"pollInterval" json:"pollInterval"`

	// PodNamespace is the working namespace hosting the probe pods
	PodNamespace string `mapstructure:"podNamespace" json:"podNamespace"`

	DeployFiles DeployFiles `mapstructure:"deployFiles" json:"deployFiles"`
	Show        Show        `mapstructure:"show" json:"show"`
}

// DeployFiles locates the probe daemonset manifests
type DeployFiles struct {
	Directory string     `mapstructure:"directory" json:"directory"`
	Multi     DeployFile `mapstructure:"multi" json:"multi"`
	Huge2Mi   DeployFile `mapstructure:"huge2mi" json:"huge2mi"`
	Huge1Gi   DeployFile `mapstructure:"huge1gi" json:"huge1gi"`
	Reserve   DeployFile `mapstructure:"reserve" json:"reserve"`
	TunedRT   DeployFile `mapstructure:"tunedrt" json:"tunedrt"`
}

// DeployFile names one manifest, without the .yaml extension
type DeployFile struct {
	Name string `mapstructure:"name" json:"name"`
}

// Show holds the report display flags
type Show struct {
	TimeStamps  bool `mapstructure:"timeStamps" json:"timeStamps"`
	Description bool `mapstructure:"description" json:"description"`
	RA2Spec     bool `mapstructure:"ra2Spec" json:"ra2Spec"`
}

// Named is a list item carrying only a name
type Named struct {
	Name string `mapstructure:"name" json:"name"`
}

// ProcessFlag is a process that must run with the given flag
type ProcessFlag struct {
	Process string `mapstructure:"process" json:"process"`
	Flag    string `mapstructure:"flag" json:"flag"`
}

// TestCase holds the metadata and parameters of one check.
// Only the parameters relevant for the named check are set.
type TestCase struct {
	Name        string `mapstructure:"name" json:"name"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	RA2Spec     string `mapstructure:"ra2Spec" json:"ra2Spec,omitempty"`

	AnuketProfileLabelKey    string   `mapstructure:"anuketProfileLabelKey" json:"anuketProfileLabelKey,omitempty"`
	AnuketProfileLabelValues []string `mapstructure:"anuketProfileLabelValues" json:"anuketProfileLabelValues,omitempty"`

	DistroNames []Named `mapstructure:"distroNames" json:"distroNames,omitempty"`
	Exceptions  []Named `mapstructure:"exceptions" json:"exceptions,omitempty"`

	MinMajor int `mapstructure:"minMajor" json:"minMajor,omitempty"`
	MinMinor int `mapstructure:"minMinor" json:"minMinor,omitempty"`

	// Types lists hugepage sizes such as 2Mi and 1Gi
	Types []Named `mapstructure:"types" json:"types,omitempty"`

	// Limit is a lower bound whose unit depends on the check
	Limit *int `mapstructure:"limit" json:"limit,omitempty"`

	Checks []ProcessFlag `mapstructure:"checks" json:"checks,omitempty"`

	KernelNames []Named `mapstructure:"kernelNames" json:"kernelNames,omitempty"`
	PreemptName string  `mapstructure:"preemptName" json:"preemptName,omitempty"`
}

// TestCase returns the test case configured under the given name
func (c *Config) TestCase(name types.CheckName) (TestCase, bool) {
	for _, tc := range c.TestCases {
		if tc.Name == string(name) {
			return tc, true
		}
	}
	return TestCase{Name: string(name)}, false
}

// DaemonSetName returns the manifest name configured for a probe daemonset
func (c *Config) DaemonSetName(key types.DaemonSetKey) string {
	d := c.Script.DeployFiles
	switch key {
	case types.DaemonSetMulti:
		return d.Multi.Name
	case types.DaemonSetHuge2Mi:
		return d.Huge2Mi.Name
	case types.DaemonSetHuge1Gi:
		return d.Huge1Gi.Name
	case types.DaemonSetReserve:
		return d.Reserve.Name
	case types.DaemonSetTunedRT:
		return d.TunedRT.Name
	default:
		return ""
	}
}

// DaemonSetNames maps every probe daemonset key to its manifest name
func (c *Config) DaemonSetNames() map[types.DaemonSetKey]string {
	names := make(map[types.DaemonSetKey]string, len(types.DaemonSetKeys))
	for _, key := range types.DaemonSetKeys {
		names[key] = c.DaemonSetName(key)
	}
	return names
}

// NamespaceTimeout bounds the wait for the working namespace
func (s Script) NamespaceTimeout() time.Duration {
	return time.Duration(s.NamespacePause) * time.Second
}

// PodTimeout bounds the wait for the probe pods
func (s Script) PodTimeout() time.Duration {
	return time.Duration(s.PodPause) * time.Second
}

// Interval is the readiness polling period
func (s Script) Interval() time.Duration {
	return time.Duration(s.PollInterval) * time.Second
}
