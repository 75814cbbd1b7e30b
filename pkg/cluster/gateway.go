/*
This file implements the gateway between the validator and the Kubernetes API.
The gateway is the only place where client-go is called; checks, the node
selector and the orchestrator depend on the Gateway interface so they can be
exercised against the fake clientset in tests.
*/

package cluster

import (
	"context"
	"fmt"
	"io"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
)

// Gateway is the set of cluster operations used by the validator
type Gateway interface {
	// ListNodes returns the nodes matching the label selector, all when empty
	ListNodes(ctx context.Context, labelSelector string) ([]corev1.Node, error)

	// GetNode returns one node
	GetNode(ctx context.Context, name string) (*corev1.Node, error)

	// ServerGroups returns the API groups and versions served by the cluster
	ServerGroups(ctx context.Context) (*metav1.APIGroupList, error)

	// GetNamespace returns one namespace
	GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error)

	// CreateNamespace creates an empty namespace
	CreateNamespace(ctx context.Context, name string) error

	// DeleteNamespace requests deletion without waiting for it
	DeleteNamespace(ctx context.Context, name string) error

	// ListPods returns the pods of a namespace, of all namespaces when empty
	ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error)

	// ListEvents returns the events of a namespace
	ListEvents(ctx context.Context, namespace string) ([]corev1.Event, error)

	// PodLogs returns the complete log of a pod
	PodLogs(ctx context.Context, namespace, pod string) (string, error)

	// CreateObject creates a decoded manifest object
	CreateObject(ctx context.Context, obj *unstructured.Unstructured) error

	// GetDaemonSet returns one daemonset
	GetDaemonSet(ctx context.Context, namespace, name string) (*appsv1.DaemonSet, error)
}

// KubeGateway implements Gateway on top of a client-go clientset
type KubeGateway struct {
	client kubernetes.Interface
}

// NewKubeGateway creates a gateway for the given clientset
func NewKubeGateway(client kubernetes.Interface) *KubeGateway {
	return &KubeGateway{client: client}
}

// ListNodes returns the nodes matching the label selector
func (g *KubeGateway) ListNodes(ctx context.Context, labelSelector string) ([]corev1.Node, error) {
	nodes, err := g.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return nodes.Items, nil
}

// GetNode returns one node
func (g *KubeGateway) GetNode(ctx context.Context, name string) (*corev1.Node, error) {
	return g.client.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
}

// ServerGroups returns the API groups served by the cluster
func (g *KubeGateway) ServerGroups(_ context.Context) (*metav1.APIGroupList, error) {
	return g.client.Discovery().ServerGroups()
}

// GetNamespace returns one namespace
func (g *KubeGateway) GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error) {
	return g.client.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
}

// CreateNamespace creates an empty namespace
func (g *KubeGateway) CreateNamespace(ctx context.Context, name string) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err := g.client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	return err
}

// DeleteNamespace requests deletion of the namespace and its content
func (g *KubeGateway) DeleteNamespace(ctx context.Context, name string) error {
	policy := metav1.DeletePropagationBackground
	return g.client.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{PropagationPolicy: &policy})
}

// ListPods returns the pods of a namespace
func (g *KubeGateway) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	pods, err := g.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}
	return pods.Items, nil
}

// ListEvents returns the events of a namespace
func (g *KubeGateway) ListEvents(ctx context.Context, namespace string) ([]corev1.Event, error) {
	events, err := g.client.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events.Items, nil
}

// PodLogs returns the complete log of the first container of a pod
func (g *KubeGateway) PodLogs(ctx context.Context, namespace, pod string) (string, error) {
	stream, err := g.client.CoreV1().Pods(namespace).GetLogs(pod, &corev1.PodLogOptions{}).Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read logs of pod %s/%s: %w", namespace, pod, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("failed to read logs of pod %s/%s: %w", namespace, pod, err)
	}
	return string(data), nil
}

// CreateObject creates a manifest object. Only the kinds shipped with the
// probe manifests are supported.
func (g *KubeGateway) CreateObject(ctx context.Context, obj *unstructured.Unstructured) error {
	ns := obj.GetNamespace()
	switch obj.GetKind() {
	case "DaemonSet":
		var ds appsv1.DaemonSet
		if err := fromUnstructured(obj, &ds); err != nil {
			return err
		}
		_, err := g.client.AppsV1().DaemonSets(ns).Create(ctx, &ds, metav1.CreateOptions{})
		return err
	case "ConfigMap":
		var cm corev1.ConfigMap
		if err := fromUnstructured(obj, &cm); err != nil {
			return err
		}
		_, err := g.client.CoreV1().ConfigMaps(ns).Create(ctx, &cm, metav1.CreateOptions{})
		return err
	case "ServiceAccount":
		var sa corev1.ServiceAccount
		if err := fromUnstructured(obj, &sa); err != nil {
			return err
		}
		_, err := g.client.CoreV1().ServiceAccounts(ns).Create(ctx, &sa, metav1.CreateOptions{})
		return err
	default:
		return fmt.Errorf("unsupported manifest kind %q (%s)", obj.GetKind(), obj.GetName())
	}
}

// GetDaemonSet returns one daemonset
func (g *KubeGateway) GetDaemonSet(ctx context.Context, namespace, name string) (*appsv1.DaemonSet, error) {
	return g.client.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
}

func fromUnstructured(obj *unstructured.Unstructured, into interface{}) error {
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(obj.Object, into); err != nil {
		return fmt.Errorf("failed to convert %s %s: %w", obj.GetKind(), obj.GetName(), err)
	}
	return nil
}
