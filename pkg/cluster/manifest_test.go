package cluster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probeManifest = `# probe collecting cpu and storage facts
---
apiVersion: v1
kind: ServiceAccount
metadata:
  name: test-multi
---
# comment only
---
apiVersion: apps/v1
kind: DaemonSet
metadata:
  name: test-multi
spec:
  selector:
    matchLabels:
      app: test-multi
  template:
    metadata:
      labels:
        app: test-multi
    spec:
      containers:
      - name: probe
        image: busybox
        resources:
          limits:
            memory: 64Mi
        ports:
        - containerPort: 8080
`

func TestReadManifests(t *testing.T) {
	objs, err := ReadManifests(strings.NewReader(probeManifest))
	require.NoError(t, err)
	require.Len(t, objs, 2)

	assert.Equal(t, "ServiceAccount", objs[0].GetKind())
	assert.Equal(t, "DaemonSet", objs[1].GetKind())
	assert.Equal(t, "test-multi", objs[1].GetName())
	assert.Empty(t, objs[1].GetNamespace())
}

func TestReadManifestsList(t *testing.T) {
	list := `apiVersion: v1
kind: List
items:
- apiVersion: v1
  kind: ConfigMap
  metadata:
    name: a
- apiVersion: v1
  kind: ConfigMap
  metadata:
    name: b
`
	objs, err := ReadManifests(strings.NewReader(list))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "a", objs[0].GetName())
	assert.Equal(t, "b", objs[1].GetName())
}

func TestReadManifestsMalformed(t *testing.T) {
	_, err := ReadManifests(strings.NewReader("kind: [unterminated"))
	assert.Error(t, err)
}

func TestReadManifestFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadManifestFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("---\n# nothing\n"), 0644))
	_, err = ReadManifestFile(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holds no objects")

	path := filepath.Join(dir, "multi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(probeManifest), 0644))
	objs, err := ReadManifestFile(path)
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}
