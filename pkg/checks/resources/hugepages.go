package resources

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/probe"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
	corev1 "k8s.io/api/core/v1"
)

// HugepagesCheck checks that hugepages are allocatable on the nodes and
// that a probe pod requesting them actually got some
type HugepagesCheck struct {
	validation.BaseCheck
}

// NewHugepagesCheck creates a new hugepages check
func NewHugepagesCheck() *HugepagesCheck {
	return &HugepagesCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckHugepages, types.CategoryResources,
			types.DaemonSetHuge2Mi, types.DaemonSetHuge1Gi),
	}
}

// Run executes the check
func (c *HugepagesCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	probes := make(validation.NodeProbes)
	for _, key := range c.DaemonSets() {
		p, err := env.ProbeLogs(ctx, key)
		if err != nil {
			rec.EngineError(err)
		}
		probes.Merge(p)
	}

	for _, name := range env.Nodes {
		node, err := env.Node(ctx, name)
		if err != nil {
			rec.APIError(name, err)
			continue
		}

		var debug []string
		var allocated int64
		for _, t := range env.Params.Types {
			q, _ := node.AllocatableQuantity(corev1.ResourceName("hugepages-" + t.Name))
			allocated += q.Value()
			debug = append(debug, fmt.Sprintf("alloc_%s=%s", t.Name, q.String()))
		}

		passed := false
		if allocated > 0 {
			for _, pod := range probes[name] {
				if n, ok := pod.Log.Int(probe.Hugepages); ok && n > 0 {
					passed = true
				}
				debug = append(debug,
					fact(pod.Log, probe.NrHugepages, "nr_hugepages"),
					fact(pod.Log, probe.MeminfoHugepagesFree, "meminfo_hugepages_free"),
					fact(pod.Log, probe.MountDevHugepages, "mount_dev_hugepages"))
			}
		}
		rec.Record(name, passed, strings.Join(debug, ", "))
	}
}

// fact renders an integer marker for the debug trace
func fact(log *probe.Log, marker, label string) string {
	n, ok := log.Int(marker)
	if !ok {
		return label + "=missing"
	}
	return label + "=" + strconv.Itoa(n)
}
