package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// KubernetesAPIsCheck checks that the cluster serves no alpha or beta API
// outside the configured exceptions. The verdict is cluster wide and
// recorded for every node.
type KubernetesAPIsCheck struct {
	validation.BaseCheck
}

// NewKubernetesAPIsCheck creates a new API maturity check
func NewKubernetesAPIsCheck() *KubernetesAPIsCheck {
	return &KubernetesAPIsCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckKubernetesAPIs, types.CategoryCluster),
	}
}

// Run executes the check
func (c *KubernetesAPIsCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	groups, err := env.Gateway.ServerGroups(ctx)
	if err != nil {
		rec.EngineError(fmt.Errorf("Kubernetes API error: %w", err))
		for _, name := range env.Nodes {
			rec.Record(name, false, "")
		}
		return
	}

	var unstable []string
	for _, g := range groups.Groups {
		for _, v := range g.Versions {
			if strings.Contains(v.Version, "alpha") || strings.Contains(v.Version, "beta") {
				unstable = append(unstable, v.GroupVersion)
			}
		}
	}
	sort.Strings(unstable)

	passed := true
	entries := make([]string, 0, len(unstable))
	for _, gv := range unstable {
		if c.excepted(env, gv) {
			entries = append(entries, "exception="+gv)
			continue
		}
		entries = append(entries, gv)
		passed = false
	}

	debug := strings.Join(entries, ", ")
	for _, name := range env.Nodes {
		rec.Record(name, passed, debug)
	}
}

func (c *KubernetesAPIsCheck) excepted(env *validation.Env, groupVersion string) bool {
	for _, e := range env.Params.Exceptions {
		if e.Name != "" && strings.Contains(groupVersion, e.Name) {
			return true
		}
	}
	return false
}
