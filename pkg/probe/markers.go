package probe

// Markers printed by the probe daemonsets, one "marker=value" pair per line
const (
	// multi probe
	VCPUs           = "vcpus"
	ThreadsPerCore  = "threadspercore"
	CoresPerSocket  = "corespersocket"
	Sockets         = "sockets"
	PCIDevice       = "pcidev"
	CPUSetLimited   = "cpusetlimited"
	AllRange        = "allrange"
	CPUSetCPUs      = "cpusetcpus"
	SameHWFrequency = "cpussamehwfreq"
	UnameRV         = "unamerv"
	KernelRealtime  = "syskernelrealtime"
	ProcCmdline     = "proccmdline"

	// huge2mi and huge1gi probes
	Hugepages            = "hugepages"
	NrHugepages          = "nr_hugepages"
	MeminfoHugepagesFree = "meminfo_HugePages_Free"
	MountDevHugepages    = "mount_dev_hugepages"

	// reserve probe
	ProcessList = "ps-ef"

	// tunedrt probe
	TunedRealtime     = "tunedlogrealtime"
	TunedStaticTuning = "tunedlogstatictuning"
)

// pciDeviceIDLength is the width of the "00:1f.2: " slot prefix of pcidev values
const pciDeviceIDLength = 9
