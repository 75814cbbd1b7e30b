package platform

import (
	"context"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// AnuketProfileLabelsCheck checks that nodes carry an allowed Anuket profile label
type AnuketProfileLabelsCheck struct {
	validation.BaseCheck
}

// NewAnuketProfileLabelsCheck creates a new Anuket profile label check
func NewAnuketProfileLabelsCheck() *AnuketProfileLabelsCheck {
	return &AnuketProfileLabelsCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckAnuketProfileLabels, types.CategoryPlatform),
	}
}

// Run executes the check
func (c *AnuketProfileLabelsCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	key := env.Params.AnuketProfileLabelKey
	allowed := make(map[string]bool, len(env.Params.AnuketProfileLabelValues))
	for _, v := range env.Params.AnuketProfileLabelValues {
		allowed[v] = true
	}

	for _, name := range env.Nodes {
		node, err := env.Node(ctx, name)
		if err != nil {
			rec.APIError(name, err)
			continue
		}

		value, ok := node.Labels[key]
		if ok && allowed[value] {
			rec.Record(name, true, key+"="+value)
			continue
		}
		rec.Record(name, false, "No label "+key)
	}
}
