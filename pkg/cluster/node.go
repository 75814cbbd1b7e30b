package cluster

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

// NodeSummary is a snapshot of the node facts evaluated by the checks.
// It is fetched per check and never cached across checks.
type NodeSummary struct {
	Name          string
	Labels        map[string]string
	KernelVersion string
	OSImage       string
	Allocatable   corev1.ResourceList
	Capacity      corev1.ResourceList
}

// Summarize builds a NodeSummary from a node object
func Summarize(node *corev1.Node) NodeSummary {
	labels := make(map[string]string, len(node.Labels))
	for k, v := range node.Labels {
		labels[k] = v
	}
	return NodeSummary{
		Name:          node.Name,
		Labels:        labels,
		KernelVersion: node.Status.NodeInfo.KernelVersion,
		OSImage:       node.Status.NodeInfo.OSImage,
		Allocatable:   node.Status.Allocatable.DeepCopy(),
		Capacity:      node.Status.Capacity.DeepCopy(),
	}
}

// FetchNode reads a node through the gateway and summarizes it
func FetchNode(ctx context.Context, gw Gateway, name string) (NodeSummary, error) {
	node, err := gw.GetNode(ctx, name)
	if err != nil {
		return NodeSummary{}, err
	}
	return Summarize(node), nil
}

// AllocatableQuantity returns the allocatable amount of a resource
func (n NodeSummary) AllocatableQuantity(name corev1.ResourceName) (resource.Quantity, bool) {
	q, ok := n.Allocatable[name]
	return q, ok
}

// CapacityQuantity returns the capacity of a resource
func (n NodeSummary) CapacityQuantity(name corev1.ResourceName) (resource.Quantity, bool) {
	q, ok := n.Capacity[name]
	return q, ok
}
