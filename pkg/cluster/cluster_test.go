package cluster

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// logGateway serves pod logs from a map; the fake clientset only returns a fixed text
type logGateway struct {
	*KubeGateway
	logs map[string]string
}

func (g *logGateway) PodLogs(_ context.Context, _, pod string) (string, error) {
	return g.logs[pod], nil
}

func testNode(name string, labels map[string]string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: labels},
		Status: corev1.NodeStatus{
			NodeInfo: corev1.NodeSystemInfo{
				KernelVersion: "5.15.0-91-generic",
				OSImage:       "Ubuntu 22.04.3 LTS",
			},
			Capacity: corev1.ResourceList{
				corev1.ResourceCPU: resource.MustParse("16"),
			},
			Allocatable: corev1.ResourceList{
				corev1.ResourceEphemeralStorage: resource.MustParse("200Gi"),
				"hugepages-2Mi":                 resource.MustParse("1Gi"),
			},
		},
	}
}

func testPod(namespace, name, node string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Spec:       corev1.PodSpec{NodeName: node},
		Status:     corev1.PodStatus{Phase: corev1.PodRunning},
	}
}
