package platform

import (
	"testing"

	"github.com/opnfv/kube-node-validator/pkg/checks/checktest"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
)

func withNodeInfo(osImage, kernel string) func(*corev1.Node) {
	return func(n *corev1.Node) {
		n.Status.NodeInfo.OSImage = osImage
		n.Status.NodeInfo.KernelVersion = kernel
	}
}

func TestAnuketProfileLabels(t *testing.T) {
	params := config.TestCase{
		AnuketProfileLabelKey:    "anuket.io/profile",
		AnuketProfileLabelValues: []string{"basic", "high-performance"},
	}
	env := checktest.Env(params, nil, []string{"basic", "hp", "other", "none", "gone"},
		checktest.Node("basic", map[string]string{"anuket.io/profile": "basic"}),
		checktest.Node("hp", map[string]string{"anuket.io/profile": "high-performance"}),
		checktest.Node("other", map[string]string{"anuket.io/profile": "edge"}),
		checktest.Node("none", map[string]string{"kubernetes.io/os": "linux"}),
	)

	report := checktest.Run(NewAnuketProfileLabelsCheck(), env)

	assert.Equal(t, map[string]bool{
		"basic": true,
		"hp":    true,
		"other": false,
		"none":  false,
		"gone":  false,
	}, checktest.Results(report))
	assert.Equal(t, "anuket.io/profile=basic", checktest.NodeResult(report, "basic").Debug)
	assert.Equal(t, "No label anuket.io/profile", checktest.NodeResult(report, "none").Debug)
	assert.Contains(t, report.StackValidation.Error, "Error fetching node details")
}

func TestLinuxDistribution(t *testing.T) {
	params := config.TestCase{DistroNames: []config.Named{{Name: "Ubuntu"}, {Name: "Red Hat"}, {Name: ""}}}
	env := checktest.Env(params, nil, []string{"ubuntu", "rhel", "flatcar"},
		checktest.Node("ubuntu", nil, withNodeInfo("Ubuntu 22.04.3 LTS", "")),
		checktest.Node("rhel", nil, withNodeInfo("Red Hat Enterprise Linux CoreOS 414", "")),
		checktest.Node("flatcar", nil, withNodeInfo("Flatcar Container Linux 3510.2.6", "")),
	)

	report := checktest.Run(NewLinuxDistributionCheck(), env)

	assert.Equal(t, map[string]bool{"ubuntu": true, "rhel": true, "flatcar": false}, checktest.Results(report))
	assert.Equal(t, "linux=Flatcar Container Linux 3510.2.6", checktest.NodeResult(report, "flatcar").Debug)
}

func TestLinuxKernelVersion(t *testing.T) {
	params := config.TestCase{MinMajor: 4, MinMinor: 18}

	tests := []struct {
		kernel string
		want   bool
	}{
		{kernel: "5.15.0-91-generic", want: true},
		{kernel: "4.18.0-513.el8.x86_64", want: true},
		{kernel: "4.19.0", want: true},
		{kernel: "4.9.337", want: false},
		{kernel: "3.10.0-1160.el7.x86_64", want: false},
		{kernel: "unknown", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.kernel, func(t *testing.T) {
			env := checktest.Env(params, nil, []string{"n"}, checktest.Node("n", nil, withNodeInfo("", tt.kernel)))

			report := checktest.Run(NewLinuxKernelVersionCheck(), env)

			result := checktest.NodeResult(report, "n")
			require.NotNil(t, result)
			assert.Equal(t, tt.want, bool(result.Result))
			assert.Equal(t, "kernel="+tt.kernel, result.Debug)
		})
	}
}

func TestNFD(t *testing.T) {
	limit := 3
	labels := map[string]string{
		"feature.node.kubernetes.io/cpu-cpuid.AVX2":              "true",
		"feature.node.kubernetes.io/cpu-hardware_multithreading": "true",
		"kubernetes.io/hostname":                                 "rich",
	}
	nodes := []string{"rich", "poor"}
	objects := []*corev1.Node{
		checktest.Node("rich", labels),
		checktest.Node("poor", map[string]string{"kubernetes.io/hostname": "poor"}),
	}

	report := checktest.Run(NewNFDCheck(), checktest.Env(config.TestCase{Limit: &limit}, nil, nodes, objects[0], objects[1]))
	assert.Equal(t, map[string]bool{"rich": true, "poor": false}, checktest.Results(report))
	assert.Equal(t, "labels=3", checktest.NodeResult(report, "rich").Debug)

	// no limit configured
	report = checktest.Run(NewNFDCheck(), checktest.Env(config.TestCase{}, nil, nodes, objects[0], objects[1]))
	assert.Equal(t, map[string]bool{"rich": false, "poor": false}, checktest.Results(report))
}

func TestGetChecks(t *testing.T) {
	for _, c := range GetChecks() {
		assert.Empty(t, c.DaemonSets(), c.Name())
	}
}
