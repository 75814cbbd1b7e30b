/*
This file defines the core interfaces and structures for validation checks:

- the Check interface every registered check implements
- BaseCheck carrying the descriptive metadata of a check
- Env, the read-only view of the cluster a check evaluates
- probe log collection indexed by node
*/

package validation

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/opnfv/kube-node-validator/pkg/cluster"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/probe"
	"github.com/opnfv/kube-node-validator/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

// Check defines the interface for a validation check
type Check interface {
	types.Check

	// Run evaluates every node of the environment and records one
	// result per node
	Run(ctx context.Context, env *Env, rec *CaseRecorder)
}

// BaseCheck provides the descriptive part of a check
type BaseCheck struct {
	name       types.CheckName
	category   types.Category
	daemonSets []types.DaemonSetKey
}

// NewBaseCheck creates a new BaseCheck
func NewBaseCheck(name types.CheckName, category types.Category, daemonSets ...types.DaemonSetKey) BaseCheck {
	return BaseCheck{
		name:       name,
		category:   category,
		daemonSets: daemonSets,
	}
}

// Name returns the test case name
func (b *BaseCheck) Name() types.CheckName {
	return b.name
}

// Category returns the category the check belongs to
func (b *BaseCheck) Category() types.Category {
	return b.category
}

// DaemonSets returns the probe daemonsets the check reads from
func (b *BaseCheck) DaemonSets() []types.DaemonSetKey {
	return b.daemonSets
}

// ProbeSource gives access to the probe pods deployed in the working namespace
type ProbeSource interface {
	// DaemonSetName returns the manifest name of a probe daemonset
	DaemonSetName(key types.DaemonSetKey) string

	// ProbePods returns the pods of a probe daemonset indexed by node name
	ProbePods(ctx context.Context, key types.DaemonSetKey) (map[string][]corev1.Pod, error)

	// PodLogs returns the log of a probe pod
	PodLogs(ctx context.Context, pod string) (string, error)
}

// Env is what a check sees of the cluster
type Env struct {
	// Gateway reads nodes and API groups
	Gateway cluster.Gateway

	// Probes reads the probe pods, nil when no daemonset was deployed
	Probes ProbeSource

	// Nodes are the selected node names in selection order
	Nodes []string

	// Params holds the configured test case of the running check
	Params config.TestCase
}

// Node fetches a fresh summary of a node
func (e *Env) Node(ctx context.Context, name string) (cluster.NodeSummary, error) {
	return cluster.FetchNode(ctx, e.Gateway, name)
}

// ProbePod is a probe pod with its parsed log
type ProbePod struct {
	Name  string
	Phase corev1.PodPhase
	Log   *probe.Log
}

// NodeProbes holds the probe pods of one daemonset indexed by node name
type NodeProbes map[string][]ProbePod

// ProbeLogs reads the logs of every pod of a probe daemonset. Pods whose
// log cannot be read are left out and reported in the returned error, so
// the nodes they run on fail closed.
func (e *Env) ProbeLogs(ctx context.Context, key types.DaemonSetKey) (NodeProbes, error) {
	probes := make(NodeProbes)
	if e.Probes == nil {
		return probes, nil
	}

	pods, err := e.Probes.ProbePods(ctx, key)
	if err != nil {
		return probes, fmt.Errorf("Kubernetes API error: %w", err)
	}

	var result error
	for node, list := range pods {
		for _, pod := range list {
			log, err := e.Probes.PodLogs(ctx, pod.Name)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			probes[node] = append(probes[node], ProbePod{
				Name:  pod.Name,
				Phase: pod.Status.Phase,
				Log:   probe.Parse(log),
			})
		}
	}
	return probes, result
}

// PodPrefix returns the pod name prefix of a probe daemonset as shown in
// error messages
func (e *Env) PodPrefix(key types.DaemonSetKey) string {
	if e.Probes == nil {
		return "test-" + string(key)
	}
	return "test-" + e.Probes.DaemonSetName(key)
}

// Last returns the last listed probe pod on a node
func (p NodeProbes) Last(node string) (ProbePod, bool) {
	pods := p[node]
	if len(pods) == 0 {
		return ProbePod{}, false
	}
	return pods[len(pods)-1], true
}

// Running returns the probe pods of a node in phase Running
func (p NodeProbes) Running(node string) []ProbePod {
	var running []ProbePod
	for _, pod := range p[node] {
		if pod.Phase == corev1.PodRunning {
			running = append(running, pod)
		}
	}
	return running
}

// Merge adds the pods of other to p
func (p NodeProbes) Merge(other NodeProbes) NodeProbes {
	for node, pods := range other {
		p[node] = append(p[node], pods...)
	}
	return p
}
