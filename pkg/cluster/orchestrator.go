/*
This file implements the lifecycle of the working namespace and of the probe
daemonsets deployed into it:

- the namespace is created when absent and waited for while a previous run
  still terminates it
- the namespace must hold no pods before any probe is applied
- probe manifests are applied from the configured directory
- readiness is polled with a bound instead of sleeping a fixed duration
- the namespace is deleted at the end without waiting for completion
*/

package cluster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/logging"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/wait"
)

var (
	// ErrNamespaceNotEmpty is returned when pods already run in the working namespace
	ErrNamespaceNotEmpty = errors.New("namespace not empty")

	// ErrNotReady is returned when a bounded wait expires
	ErrNotReady = errors.New("not ready")
)

type namespaceNotEmptyError struct {
	namespace string
	pods      []string
}

func (e *namespaceNotEmptyError) Error() string {
	return fmt.Sprintf("There are pods already running in namespace %s. Wait after previous test, "+
		"or manually delete them (like with kubectl delete ns %s).", e.namespace, e.namespace)
}

func (e *namespaceNotEmptyError) Is(target error) bool {
	return target == ErrNamespaceNotEmpty
}

// OrchestratorConfig holds the settings of the namespace and probe lifecycle
type OrchestratorConfig struct {
	Namespace        string
	Directory        string
	DaemonSets       map[types.DaemonSetKey]string
	NamespaceTimeout time.Duration
	PodTimeout       time.Duration
	Interval         time.Duration
}

// OrchestratorConfigFrom extracts the orchestrator settings from the configuration
func OrchestratorConfigFrom(cfg *config.Config) OrchestratorConfig {
	return OrchestratorConfig{
		Namespace:        cfg.Script.PodNamespace,
		Directory:        cfg.Script.DeployFiles.Directory,
		DaemonSets:       cfg.DaemonSetNames(),
		NamespaceTimeout: cfg.Script.NamespaceTimeout(),
		PodTimeout:       cfg.Script.PodTimeout(),
		Interval:         cfg.Script.Interval(),
	}
}

// Orchestrator manages the working namespace and the probe daemonsets
type Orchestrator struct {
	gw      Gateway
	config  OrchestratorConfig
	applied map[types.DaemonSetKey][]string
	log     *logrus.Entry
}

// NewOrchestrator creates an orchestrator working through the gateway
func NewOrchestrator(gw Gateway, cfg OrchestratorConfig) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Orchestrator{
		gw:      gw,
		config:  cfg,
		applied: make(map[types.DaemonSetKey][]string),
		log:     logging.For("orchestrator").WithField("namespace", cfg.Namespace),
	}
}

// Namespace returns the working namespace
func (o *Orchestrator) Namespace() string {
	return o.config.Namespace
}

// DaemonSetName returns the manifest name of a probe daemonset
func (o *Orchestrator) DaemonSetName(key types.DaemonSetKey) string {
	return o.config.DaemonSets[key]
}

// PodPrefix returns the name prefix of the pods of a probe daemonset
func (o *Orchestrator) PodPrefix(key types.DaemonSetKey) string {
	return fmt.Sprintf("test-%s-", o.DaemonSetName(key))
}

// EnsureNamespace creates the working namespace if absent. A namespace
// still terminating from a previous run is waited for.
func (o *Orchestrator) EnsureNamespace(ctx context.Context) error {
	timeout := o.config.NamespaceTimeout
	if timeout < o.config.Interval {
		timeout = o.config.Interval
	}

	err := wait.PollUntilContextTimeout(ctx, o.config.Interval, timeout, true, func(ctx context.Context) (bool, error) {
		ns, err := o.gw.GetNamespace(ctx, o.config.Namespace)
		if apierrors.IsNotFound(err) {
			if err := o.gw.CreateNamespace(ctx, o.config.Namespace); err != nil {
				if apierrors.IsAlreadyExists(err) {
					return false, nil
				}
				return false, fmt.Errorf("Kubernetes API Exception: %w", err)
			}
			o.log.Info("created namespace")
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("Kubernetes API Exception: %w", err)
		}
		if ns.Status.Phase == corev1.NamespaceTerminating {
			o.log.Debug("waiting for namespace of a previous run to terminate")
			return false, nil
		}
		return true, nil
	})
	if err != nil && wait.Interrupted(err) {
		return fmt.Errorf("%w: namespace %s still terminating after %s", ErrNotReady, o.config.Namespace, timeout)
	}
	return err
}

// VerifyEmpty fails when any pod already exists in the working namespace
func (o *Orchestrator) VerifyEmpty(ctx context.Context) error {
	pods, err := o.gw.ListPods(ctx, "")
	if err != nil {
		return fmt.Errorf("Kubernetes API Exception: %w", err)
	}

	var found []string
	for _, pod := range pods {
		if pod.Namespace == o.config.Namespace {
			found = append(found, pod.Name)
		}
	}
	if len(found) > 0 {
		o.log.WithField("pods", strings.Join(found, ",")).Warn("namespace is not empty")
		return &namespaceNotEmptyError{namespace: o.config.Namespace, pods: found}
	}
	return nil
}

// Apply creates every object of the manifest of a probe daemonset.
// Namespaced objects without namespace are placed in the working namespace.
func (o *Orchestrator) Apply(ctx context.Context, key types.DaemonSetKey) error {
	name := o.DaemonSetName(key)
	if name == "" {
		return fmt.Errorf("no manifest configured for daemonset %s", key)
	}
	path := filepath.Join(o.config.Directory, name+".yaml")

	objs, err := ReadManifestFile(path)
	if err != nil {
		return err
	}

	var result error
	for _, obj := range objs {
		if obj.GetNamespace() == "" {
			obj.SetNamespace(o.config.Namespace)
		}
		if err := o.gw.CreateObject(ctx, obj); err != nil {
			result = multierror.Append(result, fmt.Errorf("create %s %s: %w", obj.GetKind(), obj.GetName(), err))
			continue
		}
		if obj.GetKind() == "DaemonSet" {
			o.applied[key] = append(o.applied[key], obj.GetNamespace()+"/"+obj.GetName())
		}
	}

	o.log.WithField("manifest", path).Infof("applied %d object(s)", len(objs))
	return result
}

// WaitReady polls the pods of the applied daemonsets until every pod has
// settled. A pod settles once it is ready, which the shipped manifests report
// only after the script has printed its last marker, or once it cannot start.
// Pods that cannot start are left for the checks to report. On timeout the
// error names the pods, or daemonsets without pods yet, still pending.
func (o *Orchestrator) WaitReady(ctx context.Context) error {
	if len(o.applied) == 0 {
		return nil
	}

	var pending []string
	err := wait.PollUntilContextTimeout(ctx, o.config.Interval, o.config.PodTimeout, true, func(ctx context.Context) (bool, error) {
		pending = pending[:0]
		for _, refs := range o.applied {
			for _, ref := range refs {
				ns, name, _ := strings.Cut(ref, "/")
				waiting, err := o.pendingPods(ctx, ns, name)
				if err != nil {
					return false, err
				}
				pending = append(pending, waiting...)
			}
		}
		if len(pending) > 0 {
			o.log.Debugf("waiting for %s", strings.Join(pending, ", "))
		}
		return len(pending) == 0, nil
	})
	if err != nil && wait.Interrupted(err) {
		sort.Strings(pending)
		return fmt.Errorf("%w after %s: %s", ErrNotReady, o.config.PodTimeout, strings.Join(pending, ", "))
	}
	return err
}

// pendingPods returns the pods of a daemonset that have not settled, or the
// daemonset itself while its controller has not created all of them
func (o *Orchestrator) pendingPods(ctx context.Context, namespace, name string) ([]string, error) {
	ds, err := o.gw.GetDaemonSet(ctx, namespace, name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return []string{name}, nil
		}
		return nil, err
	}

	pods, err := o.gw.ListPods(ctx, namespace)
	if err != nil {
		return nil, err
	}
	var owned []corev1.Pod
	for _, pod := range pods {
		if pod.Namespace == namespace && strings.HasPrefix(pod.Name, name+"-") {
			owned = append(owned, pod)
		}
	}
	if ds.Status.ObservedGeneration < ds.Generation || int32(len(owned)) < ds.Status.DesiredNumberScheduled {
		return []string{name}, nil
	}

	var mountFailed map[string]bool
	var pending []string
	for i := range owned {
		pod := &owned[i]
		if podSettled(pod) {
			continue
		}
		if mountFailed == nil {
			if mountFailed, err = o.failedMounts(ctx, namespace); err != nil {
				return nil, err
			}
		}
		if mountFailed[pod.Name] {
			o.log.WithField("pod", pod.Name).Debug("volume mount failed")
			continue
		}
		pending = append(pending, pod.Name)
	}
	return pending, nil
}

// failedMounts returns the pods of a namespace with a FailedMount event
func (o *Orchestrator) failedMounts(ctx context.Context, namespace string) (map[string]bool, error) {
	events, err := o.gw.ListEvents(ctx, namespace)
	if err != nil {
		return nil, err
	}
	failed := make(map[string]bool)
	for _, ev := range events {
		if ev.Reason == "FailedMount" && ev.InvolvedObject.Kind == "Pod" {
			failed[ev.InvolvedObject.Name] = true
		}
	}
	return failed, nil
}

// podSettled reports whether a pod is ready or can no longer become ready
func podSettled(pod *corev1.Pod) bool {
	switch pod.Status.Phase {
	case corev1.PodSucceeded, corev1.PodFailed:
		return true
	}
	for _, cond := range pod.Status.Conditions {
		switch {
		case cond.Type == corev1.PodReady && cond.Status == corev1.ConditionTrue:
			return true
		case cond.Type == corev1.PodScheduled && cond.Status == corev1.ConditionFalse:
			return true
		}
	}
	return false
}

// DeleteNamespace requests deletion of the working namespace without waiting
func (o *Orchestrator) DeleteNamespace(ctx context.Context) error {
	err := o.gw.DeleteNamespace(ctx, o.config.Namespace)
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", o.config.Namespace, err)
	}
	o.applied = make(map[types.DaemonSetKey][]string)
	o.log.Info("requested namespace deletion")
	return nil
}

// ProbePods returns the pods of a probe daemonset indexed by node name
func (o *Orchestrator) ProbePods(ctx context.Context, key types.DaemonSetKey) (map[string][]corev1.Pod, error) {
	pods, err := o.gw.ListPods(ctx, o.config.Namespace)
	if err != nil {
		return nil, err
	}

	prefix := o.PodPrefix(key)
	byNode := make(map[string][]corev1.Pod)
	for _, pod := range pods {
		if pod.Namespace != o.config.Namespace || !strings.HasPrefix(pod.Name, prefix) {
			continue
		}
		byNode[pod.Spec.NodeName] = append(byNode[pod.Spec.NodeName], pod)
	}
	return byNode, nil
}

// PodLogs returns the log of a pod of the working namespace
func (o *Orchestrator) PodLogs(ctx context.Context, pod string) (string, error) {
	return o.gw.PodLogs(ctx, o.config.Namespace, pod)
}
