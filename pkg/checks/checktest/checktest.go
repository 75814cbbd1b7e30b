// Package checktest provides a fake cluster for check tests
package checktest

import (
	"context"
	"fmt"

	"github.com/opnfv/kube-node-validator/pkg/cluster"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
)

// Probes is an in-memory ProbeSource
type Probes struct {
	pods map[types.DaemonSetKey]map[string][]corev1.Pod
	logs map[string]string
}

// NewProbes creates an empty probe source
func NewProbes() *Probes {
	return &Probes{
		pods: make(map[types.DaemonSetKey]map[string][]corev1.Pod),
		logs: make(map[string]string),
	}
}

// Add places a probe pod of a daemonset on a node
func (p *Probes) Add(key types.DaemonSetKey, node string, phase corev1.PodPhase, log string) {
	name := fmt.Sprintf("test-%s-%s", key, node)
	if p.pods[key] == nil {
		p.pods[key] = make(map[string][]corev1.Pod)
	}
	p.pods[key][node] = append(p.pods[key][node], corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec:       corev1.PodSpec{NodeName: node},
		Status:     corev1.PodStatus{Phase: phase},
	})
	p.logs[name] = log
}

// DaemonSetName uses the key as manifest name
func (p *Probes) DaemonSetName(key types.DaemonSetKey) string {
	return string(key)
}

// ProbePods returns the pods added for a daemonset
func (p *Probes) ProbePods(_ context.Context, key types.DaemonSetKey) (map[string][]corev1.Pod, error) {
	return p.pods[key], nil
}

// PodLogs returns the log added with a pod
func (p *Probes) PodLogs(_ context.Context, pod string) (string, error) {
	log, ok := p.logs[pod]
	if !ok {
		return "", fmt.Errorf("pods %q not found", pod)
	}
	return log, nil
}

// Node builds a node object
func Node(name string, labels map[string]string, mutate ...func(*corev1.Node)) *corev1.Node {
	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: labels},
		Status: corev1.NodeStatus{
			Capacity:    corev1.ResourceList{},
			Allocatable: corev1.ResourceList{},
		},
	}
	for _, m := range mutate {
		m(node)
	}
	return node
}

// Env creates an environment over a fake clientset holding the nodes.
// Nodes lists the selected names, which may include absent nodes.
func Env(params config.TestCase, probes *Probes, nodes []string, objects ...runtime.Object) *validation.Env {
	return EnvFor(fake.NewSimpleClientset(objects...), params, probes, nodes)
}

// EnvFor creates an environment over the given clientset
func EnvFor(client kubernetes.Interface, params config.TestCase, probes *Probes, nodes []string) *validation.Env {
	env := &validation.Env{
		Gateway: cluster.NewKubeGateway(client),
		Nodes:   nodes,
		Params:  params,
	}
	if probes != nil {
		env.Probes = probes
	}
	return env
}

// Run evaluates a check and returns its report
func Run(check validation.Check, env *validation.Env) *validation.Report {
	a := validation.NewAssembler(config.Show{}, true)
	rec := a.Begin(check.Name(), env.Params)
	check.Run(context.Background(), env, rec)
	return a.Report()
}

// Results maps node names to verdicts of the single test case of a report
func Results(r *validation.Report) map[string]bool {
	results := make(map[string]bool)
	for _, tc := range r.StackValidation.TestCases {
		for _, n := range tc.Nodes {
			results[n.Name] = bool(n.Result)
		}
	}
	return results
}

// NodeResult returns the result of one node
func NodeResult(r *validation.Report, node string) *validation.NodeResult {
	for _, tc := range r.StackValidation.TestCases {
		for _, n := range tc.Nodes {
			if n.Name == node {
				return n
			}
		}
	}
	return nil
}
