package checks

import (
	"testing"

	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestRegistryOrder(t *testing.T) {
	var names []types.CheckName
	for _, c := range Registry() {
		names = append(names, c.Name())
	}

	assert.Equal(t, []types.CheckName{
		types.CheckAnuketProfileLabels,
		types.CheckLinuxDistribution,
		types.CheckKubernetesAPIs,
		types.CheckLinuxKernelVersion,
		types.CheckHugepages,
		types.CheckSMT,
		types.CheckPhysicalStorage,
		types.CheckStorageQuantity,
		types.CheckVcpuQuantity,
		types.CheckCPUPinning,
		types.CheckNFD,
		types.CheckSystemResourceReservation,
		types.CheckRT,
	}, names)
}

func TestUnsupported(t *testing.T) {
	unsupported := Unsupported()

	assert.Len(t, unsupported, 2)
	assert.Equal(t, "Testcase validateSecurityGroups not implemented.", unsupported[types.CheckSecurityGroups])
	assert.Equal(t, "Current testcase validateTSN doesn't work with virtual networking.", unsupported[types.CheckTSN])

	for _, c := range Registry() {
		assert.NotContains(t, unsupported, c.Name())
	}
}

func TestByCategory(t *testing.T) {
	assert.Len(t, ByCategory(types.CategoryHardware), 5)
	assert.Len(t, ByCategory(types.CategoryCluster), 1)

	total := 0
	for _, category := range []types.Category{types.CategoryPlatform, types.CategoryCluster, types.CategoryResources, types.CategoryHardware} {
		total += len(ByCategory(category))
	}
	assert.Equal(t, len(Registry()), total)
}

func TestNames(t *testing.T) {
	names := Names()

	assert.Len(t, names, 15)
	assert.Equal(t, types.CheckTSN, names[len(names)-1])
}

func TestByCategoryMatchesRegistry(t *testing.T) {
	registered := map[types.CheckName]types.Category{}
	for _, c := range Registry() {
		registered[c.Name()] = c.Category()
	}

	for _, category := range []types.Category{types.CategoryPlatform, types.CategoryCluster, types.CategoryResources, types.CategoryHardware} {
		for _, c := range ByCategory(category) {
			assert.Equal(t, category, registered[c.Name()], c.Name())
		}
	}
	assert.Nil(t, ByCategory("Unknown"))
}
