package cluster

import (
	"testing"

	"github.com/opnfv/kube-node-validator/pkg/checks/checktest"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	fakediscovery "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes/fake"
)

func TestKubernetesAPIs(t *testing.T) {
	tests := []struct {
		name       string
		versions   []string
		exceptions []config.Named
		want       bool
		debug      string
	}{
		{
			name:     "stable only",
			versions: []string{"v1", "apps/v1", "batch/v1"},
			want:     true,
		},
		{
			name:     "beta served",
			versions: []string{"v1", "flowcontrol.apiserver.k8s.io/v1beta3"},
			want:     false,
			debug:    "flowcontrol.apiserver.k8s.io/v1beta3",
		},
		{
			name:       "beta excepted",
			versions:   []string{"apps/v1", "flowcontrol.apiserver.k8s.io/v1beta3"},
			exceptions: []config.Named{{Name: "flowcontrol.apiserver.k8s.io"}},
			want:       true,
			debug:      "exception=flowcontrol.apiserver.k8s.io/v1beta3",
		},
		{
			name:       "alpha not excepted",
			versions:   []string{"flowcontrol.apiserver.k8s.io/v1beta3", "resource.k8s.io/v1alpha2"},
			exceptions: []config.Named{{Name: "flowcontrol"}},
			want:       false,
			debug:      "exception=flowcontrol.apiserver.k8s.io/v1beta3, resource.k8s.io/v1alpha2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := fake.NewSimpleClientset()
			var resources []*metav1.APIResourceList
			for _, gv := range tt.versions {
				resources = append(resources, &metav1.APIResourceList{GroupVersion: gv})
			}
			client.Discovery().(*fakediscovery.FakeDiscovery).Resources = resources

			env := checktest.EnvFor(client, config.TestCase{Exceptions: tt.exceptions}, nil, []string{"worker-0", "worker-1"})
			report := checktest.Run(NewKubernetesAPIsCheck(), env)

			assert.Equal(t, map[string]bool{"worker-0": tt.want, "worker-1": tt.want}, checktest.Results(report))
			assert.Equal(t, tt.debug, checktest.NodeResult(report, "worker-1").Debug)
		})
	}
}
