package resources

import (
	"context"
	"fmt"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
	corev1 "k8s.io/api/core/v1"
)

const gibibyte = 1 << 30

// StorageQuantityCheck checks the allocatable ephemeral storage of the nodes, in GiB
type StorageQuantityCheck struct {
	validation.BaseCheck
}

// NewStorageQuantityCheck creates a new storage quantity check
func NewStorageQuantityCheck() *StorageQuantityCheck {
	return &StorageQuantityCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckStorageQuantity, types.CategoryResources),
	}
}

// Run executes the check
func (c *StorageQuantityCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	for _, name := range env.Nodes {
		node, err := env.Node(ctx, name)
		if err != nil {
			rec.APIError(name, err)
			continue
		}

		q, ok := node.AllocatableQuantity(corev1.ResourceEphemeralStorage)
		if !ok {
			rec.Record(name, false, "ephemeral_storage=missing")
			continue
		}
		gib := q.Value() / gibibyte
		passed := env.Params.Limit != nil && gib >= int64(*env.Params.Limit)
		rec.Record(name, passed, fmt.Sprintf("ephemeral_storage=%dGiB", gib))
	}
}
