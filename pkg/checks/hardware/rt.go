package hardware

import (
	"context"
	"strings"

	"github.com/opnfv/kube-node-validator/pkg/config"
	"github.com/opnfv/kube-node-validator/pkg/probe"
	"github.com/opnfv/kube-node-validator/pkg/types"
	"github.com/opnfv/kube-node-validator/pkg/validation"
)

// RTCheck checks the real-time settings of the nodes:
//   - all CPUs run at the same hardware frequency
//   - a real-time kernel is booted
//   - tuned applied a real-time profile
type RTCheck struct {
	validation.BaseCheck
}

// NewRTCheck creates a new real-time check
func NewRTCheck() *RTCheck {
	return &RTCheck{
		BaseCheck: validation.NewBaseCheck(types.CheckRT, types.CategoryHardware,
			types.DaemonSetMulti, types.DaemonSetTunedRT),
	}
}

// Run executes the check. A node passes only when both its multi probe and
// a running tuned probe are found. The tuned probe is not scheduled on
// nodes without a tuned log, in which case the multi facts are still shown.
func (c *RTCheck) Run(ctx context.Context, env *validation.Env, rec *validation.CaseRecorder) {
	multi := probeLogs(ctx, env, rec, types.DaemonSetMulti)
	tuned := probeLogs(ctx, env, rec, types.DaemonSetTunedRT)

	for _, name := range env.Nodes {
		multiPod, hasMulti := multi.Last(name)
		running := tuned.Running(name)
		hasTuned := len(running) > 0

		var cpupower, kernel rtFacts
		if hasMulti {
			cpupower = sameFrequency(multiPod.Log)
			kernel = realtimeKernel(multiPod.Log, env.Params)
		}

		if !hasMulti || !hasTuned {
			var missing []string
			if !hasMulti {
				missing = append(missing, env.PodPrefix(types.DaemonSetMulti))
			}
			if !hasTuned {
				missing = append(missing, env.PodPrefix(types.DaemonSetTunedRT))
			}
			debug := ""
			if hasMulti {
				debug = cpupower.debug + "; " + kernel.debug
			}
			rec.Fail(name, debug, "Cannot find pods "+strings.Join(missing, " "))
			continue
		}

		profile := tunedRealtime(running[len(running)-1].Log)
		passed := cpupower.ok && kernel.ok && profile.ok
		rec.Record(name, passed, strings.Join([]string{cpupower.debug, kernel.debug, profile.debug}, "; "))
	}
}

type rtFacts struct {
	ok    bool
	debug string
}

// sameFrequency reads the cpupower frequency-info summary
func sameFrequency(log *probe.Log) rtFacts {
	line, ok := log.Line(probe.SameHWFrequency)
	if !ok {
		return rtFacts{}
	}
	return rtFacts{ok: !strings.Contains(line, "NotAvailable"), debug: line}
}

// realtimeKernel requires a real-time kernel name and the preempt model in
// uname, /sys/kernel/realtime set and a real-time BOOT_IMAGE
func realtimeKernel(log *probe.Log, params config.TestCase) rtFacts {
	var debug []string

	nameOK, preemptOK := false, false
	if _, line, ok := log.Find(probe.UnameRV); ok {
		nameOK = hasKernelName(line, params.KernelNames)
		preemptOK = params.PreemptName != "" && strings.Contains(line, " "+params.PreemptName+" ")
		debug = append(debug, line)
	}

	sysOK := false
	if value, line, ok := log.Find(probe.KernelRealtime); ok {
		sysOK = strings.TrimSpace(value) == "1"
		debug = append(debug, line)
	}

	bootOK := false
	if cmdline, ok := log.String(probe.ProcCmdline); ok {
		for _, word := range strings.Fields(cmdline) {
			if strings.HasPrefix(word, "BOOT_IMAGE=") && hasKernelName(word, params.KernelNames) {
				bootOK = true
			}
		}
		debug = append(debug, probe.ProcCmdline+"="+cmdline)
	}

	return rtFacts{ok: nameOK && preemptOK && sysOK && bootOK, debug: strings.Join(debug, "; ")}
}

// tunedRealtime checks that the last static tuning came from a real-time profile
func tunedRealtime(log *probe.Log) rtFacts {
	var f rtFacts
	if value, _, ok := log.Find(probe.TunedRealtime); ok {
		f.ok = strings.TrimSpace(value) == "1"
	}
	if _, line, ok := log.Find(probe.TunedStaticTuning); ok {
		f.debug = line
	}
	return f
}

func hasKernelName(s string, names []config.Named) bool {
	for _, kn := range names {
		if kn.Name != "" && strings.Contains(s, "-"+kn.Name) {
			return true
		}
	}
	return false
}
