package types

// CheckName is the identifier of a validation test case as used on the
// command line and in the configuration file
type CheckName string

const (
	// CheckAnuketProfileLabels verifies the Anuket profile label of a node
	CheckAnuketProfileLabels CheckName = "validateAnuketProfileLabels"

	// CheckLinuxDistribution verifies the node OS image against known distributions
	CheckLinuxDistribution CheckName = "validateLinuxDistribution"

	// CheckKubernetesAPIs verifies that no alpha or beta APIs are served
	CheckKubernetesAPIs CheckName = "validateKubernetesAPIs"

	// CheckLinuxKernelVersion verifies the minimum kernel version of a node
	CheckLinuxKernelVersion CheckName = "validateLinuxKernelVersion"

	// CheckHugepages verifies hugepages are allocatable and usable
	CheckHugepages CheckName = "validateHugepages"

	// CheckSMT verifies the CPU topology reported by /proc/cpuinfo
	CheckSMT CheckName = "validateSMT"

	// CheckPhysicalStorage verifies that an SSD device is present
	CheckPhysicalStorage CheckName = "validatePhysicalStorage"

	// CheckStorageQuantity verifies the allocatable ephemeral storage
	CheckStorageQuantity CheckName = "validateStorageQuantity"

	// CheckVcpuQuantity verifies the number of vCPUs of a node
	CheckVcpuQuantity CheckName = "validateVcpuQuantity"

	// CheckCPUPinning verifies the kubelet static CPU manager policy
	CheckCPUPinning CheckName = "validateCPUPinning"

	// CheckNFD verifies that node feature discovery labelled the node
	CheckNFD CheckName = "validateNFD"

	// CheckSystemResourceReservation verifies kubelet system reservations
	CheckSystemResourceReservation CheckName = "validateSystemResourceReservation"

	// CheckRT verifies real-time kernel, tuned profile and CPU frequency settings
	CheckRT CheckName = "validateRT"

	// CheckSecurityGroups is known but not implemented
	CheckSecurityGroups CheckName = "validateSecurityGroups"

	// CheckTSN is known but cannot run on virtual networking
	CheckTSN CheckName = "validateTSN"

	// CheckAll selects every registered check
	CheckAll CheckName = "validateAll"
)

// DaemonSetKey identifies one of the probe daemonsets declared in the
// deployFiles section of the configuration
type DaemonSetKey string

const (
	// DaemonSetMulti collects CPU, storage, kernel and frequency facts
	DaemonSetMulti DaemonSetKey = "multi"

	// DaemonSetHuge2Mi requests 2Mi hugepages
	DaemonSetHuge2Mi DaemonSetKey = "huge2mi"

	// DaemonSetHuge1Gi requests 1Gi hugepages
	DaemonSetHuge1Gi DaemonSetKey = "huge1gi"

	// DaemonSetReserve dumps the kubelet command line
	DaemonSetReserve DaemonSetKey = "reserve"

	// DaemonSetTunedRT reads the tuned log
	DaemonSetTunedRT DaemonSetKey = "tunedrt"
)

// DaemonSetKeys lists the probe daemonsets in deployment order
var DaemonSetKeys = []DaemonSetKey{
	DaemonSetMulti,
	DaemonSetHuge2Mi,
	DaemonSetHuge1Gi,
	DaemonSetReserve,
	DaemonSetTunedRT,
}

// Category groups checks by the source of the facts they evaluate
type Category string

const (
	// CategoryPlatform is for checks reading node metadata
	CategoryPlatform Category = "Platform"

	// CategoryCluster is for cluster-wide checks
	CategoryCluster Category = "Cluster"

	// CategoryResources is for checks on node capacity and allocatable resources
	CategoryResources Category = "Resources"

	// CategoryHardware is for checks that rely on probe pod output
	CategoryHardware Category = "Hardware"
)

// ReportFormat defines the format of the generated report
type ReportFormat string

const (
	// FormatJSON generates the JSON report
	FormatJSON ReportFormat = "json"

	// FormatSummary generates a brief colored summary
	FormatSummary ReportFormat = "summary"
)

// Check defines the descriptive side of a validation check
type Check interface {
	// Name returns the test case name of the check
	Name() CheckName

	// Category returns the category the check belongs to
	Category() Category

	// DaemonSets returns the probe daemonsets the check reads from
	DaemonSets() []DaemonSetKey
}
