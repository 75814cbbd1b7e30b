package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiLog = `vcpus=8
threadspercore=2
corespersocket=2
sockets=2
pcidev=00:1f.2: SATA controller: Samsung SSD 860
pcidev=00:1f.3: Audio device: Intel
pcidev=00:1f.2: SATA controller: Samsung SSD 860
cpusetlimited=1
allrange=0-7
cpusetcpus=2-3
cpussamehwfreq=0-7
Linux unamerv=5.14.0-rt21 #1 SMP PREEMPT_RT Tue
syskernelrealtime=1
proccmdline=BOOT_IMAGE=/vmlinuz-5.14.0-rt21 root=/dev/sda1
`

func TestLogInt(t *testing.T) {
	log := Parse(multiLog)

	tests := []struct {
		marker string
		want   int
		ok     bool
	}{
		{marker: VCPUs, want: 8, ok: true},
		{marker: Sockets, want: 2, ok: true},
		{marker: CPUSetLimited, want: 1, ok: true},
		{marker: AllRange, ok: false},
		{marker: Hugepages, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			got, ok := log.Int(tt.marker)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLastOccurrenceWins(t *testing.T) {
	log := Parse("hugepages=0\nhugepages=512\nnr_hugepages=4\n")

	n, ok := log.Int(Hugepages)
	require.True(t, ok)
	assert.Equal(t, 512, n)

	// nr_hugepages does not match the hugepages marker
	assert.Equal(t, []string{"0", "512"}, log.Strings(Hugepages))
}

func TestLogString(t *testing.T) {
	log := Parse(multiLog)

	v, ok := log.String(AllRange)
	require.True(t, ok)
	assert.Equal(t, "0-7", v)

	v, ok = log.String(ProcCmdline)
	require.True(t, ok)
	assert.Equal(t, "BOOT_IMAGE=/vmlinuz-5.14.0-rt21 root=/dev/sda1", v)

	_, ok = log.String(UnameRV)
	assert.False(t, ok, "marker not at line start")

	line, ok := log.Line(SameHWFrequency)
	require.True(t, ok)
	assert.Equal(t, "cpussamehwfreq=0-7", line)
}

func TestLogFind(t *testing.T) {
	log := Parse(multiLog)

	value, line, ok := log.Find(UnameRV)
	require.True(t, ok)
	assert.Equal(t, "5.14.0-rt21 #1 SMP PREEMPT_RT Tue", value)
	assert.Equal(t, "Linux unamerv=5.14.0-rt21 #1 SMP PREEMPT_RT Tue", line)

	_, _, ok = log.Find(TunedRealtime)
	assert.False(t, ok)
}

func TestLogPCIDevices(t *testing.T) {
	log := Parse(multiLog)

	assert.Equal(t, []string{
		"SATA controller: Samsung SSD 860",
		"Audio device: Intel",
	}, log.PCIDevices())

	assert.Empty(t, Parse("pcidev=short\n").PCIDevices())
}

func TestParseCRLF(t *testing.T) {
	log := Parse("vcpus=4\r\nsockets=1\r\n")

	n, ok := log.Int(VCPUs)
	require.True(t, ok)
	assert.Equal(t, 4, n)
}

func TestLogUnparsableInt(t *testing.T) {
	_, ok := Parse("vcpus=many\n").Int(VCPUs)
	assert.False(t, ok)
}
