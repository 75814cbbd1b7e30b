package hardware

import (
	"testing"

	"github.com/opnfv/kube-node-validator/pkg/checks/checktest"
	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
)

func TestSMT(t *testing.T) {
	tests := []struct {
		name  string
		log   string
		want  bool
		debug string
	}{
		{
			name:  "matching topology",
			log:   "vcpus=8\nthreadspercore=2\ncorespersocket=2\nsockets=2\n",
			want:  true,
			debug: "vcpus=8, threadspercore=2, corespersocket=2, sockets=2",
		},
		{
			name:  "threads broken",
			log:   "vcpus=8\nthreadspercore=1\ncorespersocket=2\nsockets=2\n",
			want:  false,
			debug: "vcpus=8, threadspercore=1, corespersocket=2, sockets=2",
		},
		{
			name:  "sockets broken",
			log:   "vcpus=8\nthreadspercore=2\ncorespersocket=2\nsockets=1\n",
			want:  false,
			debug: "vcpus=8, threadspercore=2, corespersocket=2, sockets=1",
		},
		{
			name:  "vcpus broken",
			log:   "vcpus=6\nthreadspercore=2\ncorespersocket=2\nsockets=2\n",
			want:  false,
			debug: "vcpus=6, threadspercore=2, corespersocket=2, sockets=2",
		},
		{
			name:  "missing marker",
			log:   "vcpus=4\nthreadspercore=1\ncorespersocket=4\n",
			want:  false,
			debug: "vcpus=4, threadspercore=1, corespersocket=4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probes := checktest.NewProbes()
			probes.Add(types.DaemonSetMulti, "worker-0", corev1.PodRunning, tt.log)

			report := checktest.Run(NewSMTCheck(), checktest.Env(config.TestCase{}, probes, []string{"worker-0"}))

			result := checktest.NodeResult(report, "worker-0")
			require.NotNil(t, result)
			assert.Equal(t, tt.want, bool(result.Result))
			assert.Equal(t, tt.debug, result.Debug)
		})
	}
}

func TestSMTMatchesPodsToNodes(t *testing.T) {
	probes := checktest.NewProbes()
	probes.Add(types.DaemonSetMulti, "worker-0", corev1.PodRunning, "vcpus=8\nthreadspercore=2\ncorespersocket=2\nsockets=2\n")
	probes.Add(types.DaemonSetMulti, "worker-1", corev1.PodRunning, "vcpus=8\nthreadspercore=1\ncorespersocket=2\nsockets=2\n")

	report := checktest.Run(NewSMTCheck(), checktest.Env(config.TestCase{}, probes, []string{"worker-0", "worker-1", "worker-2"}))

	assert.Equal(t, map[string]bool{"worker-0": true, "worker-1": false, "worker-2": false}, checktest.Results(report))
}

func TestPhysicalStorage(t *testing.T) {
	probes := checktest.NewProbes()
	probes.Add(types.DaemonSetMulti, "ssd", corev1.PodRunning,
		"pcidev=00:17.0: SATA controller: Samsung SSD 870\npcidev=00:1f.3: Audio device\npcidev=00:17.0: SATA controller: Samsung SSD 870\n")
	probes.Add(types.DaemonSetMulti, "hdd", corev1.PodRunning, "pcidev=00:17.0: SATA controller: Seagate Barracuda\n")

	report := checktest.Run(NewPhysicalStorageCheck(), checktest.Env(config.TestCase{}, probes, []string{"ssd", "hdd"}))

	assert.Equal(t, map[string]bool{"ssd": true, "hdd": false}, checktest.Results(report))
	assert.Equal(t, "SATA controller: Samsung SSD 870, Audio device", checktest.NodeResult(report, "ssd").Debug)
}

func TestCPUPinning(t *testing.T) {
	probes := checktest.NewProbes()
	probes.Add(types.DaemonSetMulti, "pinned", corev1.PodRunning, "allrange=0-15\ncpusetcpus=2-3\ncpusetlimited=1\n")
	probes.Add(types.DaemonSetMulti, "shared", corev1.PodRunning, "allrange=0-15\ncpusetcpus=0-15\ncpusetlimited=0\n")
	probes.Add(types.DaemonSetMulti, "silent", corev1.PodRunning, "allrange=0-15\n")

	report := checktest.Run(NewCPUPinningCheck(), checktest.Env(config.TestCase{}, probes, []string{"pinned", "shared", "silent"}))

	assert.Equal(t, map[string]bool{"pinned": true, "shared": false, "silent": false}, checktest.Results(report))
	assert.Equal(t, "allrange=0-15, cpusetcpus=2-3", checktest.NodeResult(report, "pinned").Debug)
}

func TestSystemResourceReservation(t *testing.T) {
	params := config.TestCase{Checks: []config.ProcessFlag{
		{Process: "kubelet", Flag: "system-reserved"},
		{Process: "kubelet", Flag: "kube-reserved"},
	}}
	probes := checktest.NewProbes()
	probes.Add(types.DaemonSetReserve, "reserved", corev1.PodRunning,
		"ps-ef=root 1 0 /usr/bin/containerd\nps-ef=root 2 1 /usr/bin/kubelet --system-reserved=cpu=1 --kube-reserved=cpu=1\n")
	probes.Add(types.DaemonSetReserve, "partial", corev1.PodRunning,
		"ps-ef=root 2 1 /usr/bin/kubelet --system-reserved=cpu=1\n")
	probes.Add(types.DaemonSetReserve, "none", corev1.PodRunning, "ps-ef=root 1 0 /sbin/init\n")

	report := checktest.Run(NewSystemResourceReservationCheck(),
		checktest.Env(params, probes, []string{"reserved", "partial", "none", "nopod"}))

	assert.Equal(t, map[string]bool{"reserved": true, "partial": false, "none": false, "nopod": false}, checktest.Results(report))
	assert.Equal(t, "command=root 2 1 /usr/bin/kubelet --system-reserved=cpu=1 --kube-reserved=cpu=1",
		checktest.NodeResult(report, "reserved").Debug)
	assert.Equal(t, "not found", checktest.NodeResult(report, "none").Debug)
	assert.Equal(t, "not found", checktest.NodeResult(report, "nopod").Debug)
}

func TestSystemResourceReservationWithoutChecks(t *testing.T) {
	passed, _ := evaluateReservation([]string{"/usr/bin/kubelet --system-reserved=cpu=1"}, nil)
	assert.False(t, passed)
}

const realtimeLog = `cpussamehwfreq=0-15
Linux node unamerv=6.1.0-18-rt-amd64 #1 SMP PREEMPT_RT Debian
syskernelrealtime=1
proccmdline=BOOT_IMAGE=/boot/vmlinuz-6.1.0-18-rt-amd64 root=UUID=1234 ro
`

func TestRT(t *testing.T) {
	params := config.TestCase{
		KernelNames: []config.Named{{Name: "rt"}, {Name: "realtime"}},
		PreemptName: "PREEMPT_RT",
	}

	tests := []struct {
		name      string
		multi     string
		tuned     string
		phase     corev1.PodPhase
		noMulti   bool
		noTuned   bool
		want      bool
		wantError string
	}{
		{name: "realtime", multi: realtimeLog, tuned: "tunedlogrealtime=1\n", phase: corev1.PodRunning, want: true},
		{
			name:  "frequency unavailable",
			multi: "cpussamehwfreq=NotAvailable\n" + realtimeLog[len("cpussamehwfreq=0-15\n"):],
			tuned: "tunedlogrealtime=1\n", phase: corev1.PodRunning, want: false,
		},
		{
			name:  "generic kernel",
			multi: "cpussamehwfreq=0-15\nLinux node unamerv=5.15.0-91-generic #101 SMP Tue\nsyskernelrealtime=0\nproccmdline=BOOT_IMAGE=/vmlinuz-5.15.0-91-generic\n",
			tuned: "tunedlogrealtime=1\n", phase: corev1.PodRunning, want: false,
		},
		{name: "tuned not realtime", multi: realtimeLog, tuned: "tunedlogrealtime=0\n", phase: corev1.PodRunning, want: false},
		{
			name: "tuned pending", multi: realtimeLog, tuned: "tunedlogrealtime=1\n", phase: corev1.PodPending,
			want: false, wantError: "Cannot find pods test-tunedrt",
		},
		{
			name: "no tuned pod", multi: realtimeLog, noTuned: true,
			want: false, wantError: "Cannot find pods test-tunedrt",
		},
		{
			name: "no pods", noMulti: true, noTuned: true,
			want: false, wantError: "Cannot find pods test-multi test-tunedrt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probes := checktest.NewProbes()
			if !tt.noMulti {
				probes.Add(types.DaemonSetMulti, "worker-0", corev1.PodRunning, tt.multi)
			}
			if !tt.noTuned {
				probes.Add(types.DaemonSetTunedRT, "worker-0", tt.phase, tt.tuned)
			}

			report := checktest.Run(NewRTCheck(), checktest.Env(params, probes, []string{"worker-0"}))

			result := checktest.NodeResult(report, "worker-0")
			require.NotNil(t, result)
			assert.Equal(t, tt.want, bool(result.Result))
			assert.Equal(t, tt.wantError, result.Error)
		})
	}
}

func TestRTDebug(t *testing.T) {
	params := config.TestCase{KernelNames: []config.Named{{Name: "rt"}}, PreemptName: "PREEMPT_RT"}
	probes := checktest.NewProbes()
	probes.Add(types.DaemonSetMulti, "worker-0", corev1.PodRunning, realtimeLog)
	probes.Add(types.DaemonSetTunedRT, "worker-0", corev1.PodRunning,
		"tunedlogrealtime=1\n2024-12-02 20:17:31 INFO tunedlogstatictuning=static tuning from profile 'realtime' applied\n")

	report := checktest.Run(NewRTCheck(), checktest.Env(params, probes, []string{"worker-0"}))

	result := checktest.NodeResult(report, "worker-0")
	require.NotNil(t, result)
	assert.True(t, bool(result.Result))
	assert.Equal(t, "cpussamehwfreq=0-15; "+
		"Linux node unamerv=6.1.0-18-rt-amd64 #1 SMP PREEMPT_RT Debian; "+
		"syskernelrealtime=1; "+
		"proccmdline=BOOT_IMAGE=/boot/vmlinuz-6.1.0-18-rt-amd64 root=UUID=1234 ro; "+
		"2024-12-02 20:17:31 INFO tunedlogstatictuning=static tuning from profile 'realtime' applied",
		result.Debug)
}

func TestGetChecks(t *testing.T) {
	for _, c := range GetChecks() {
		assert.NotEmpty(t, c.DaemonSets(), c.Name())
		assert.Equal(t, types.CategoryHardware, c.Category())
	}
}
