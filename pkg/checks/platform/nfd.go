package platform

import (
	"context"
	"fmt"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// NFDCheck checks that node feature discovery labelled the nodes
type NFDCheck struct {
	validation.BaseCheck
}

// NewNFDCheck creates a new node feature discovery check
func NewNFDCheck() *NFDCheck {
	return &NFDCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckNFD, types.CategoryPlatform),
	}
}

// Run executes the check
func (c *NFDCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	for _, name := range env.Nodes {
		node, err := env.Node(ctx, name)
		if err != nil {
			rec.APIError(name, err)
			continue
		}

		count := len(node.Labels)
		passed := env.Params.Limit != nil && count >= *env.Params.Limit
		rec.Record(name, passed, fmt.Sprintf("labels=%d", count))
	}
}
