/*
Package probe extracts the facts printed by the probe pods.

Each probe writes "marker=value" lines to its log. Lookups return the value
together with its presence so that callers fail closed when a marker is
missing or cannot be converted.
*/
package probe

import (
	"strconv"
	"strings"
)

// Log is a parsed probe pod log
type Log struct {
	lines []string
}

// Parse splits a pod log into lines
func Parse(log string) *Log {
	log = strings.ReplaceAll(log, "\r\n", "\n")
	return &Log{lines: strings.Split(log, "\n")}
}

// String returns the value of the last line starting with "marker="
func (l *Log) String(marker string) (string, bool) {
	prefix := marker + "="
	for i := len(l.lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(l.lines[i], prefix) {
			return l.lines[i][len(prefix):], true
		}
	}
	return "", false
}

// Strings returns the values of every line starting with "marker=", in log order
func (l *Log) Strings(marker string) []string {
	prefix := marker + "="
	var values []string
	for _, line := range l.lines {
		if strings.HasPrefix(line, prefix) {
			values = append(values, line[len(prefix):])
		}
	}
	return values
}

// Int returns the value of a marker as an integer
func (l *Log) Int(marker string) (int, bool) {
	s, ok := l.String(marker)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Line returns the last line starting with "marker="
func (l *Log) Line(marker string) (string, bool) {
	prefix := marker + "="
	for i := len(l.lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(l.lines[i], prefix) {
			return l.lines[i], true
		}
	}
	return "", false
}

// Find returns the text following "marker=" on the last line containing it,
// together with the whole line. Probes running a shell pipeline may prefix
// the marker with command output.
func (l *Log) Find(marker string) (value, line string, ok bool) {
	needle := marker + "="
	for i := len(l.lines) - 1; i >= 0; i-- {
		if idx := strings.Index(l.lines[i], needle); idx >= 0 {
			return l.lines[i][idx+len(needle):], l.lines[i], true
		}
	}
	return "", "", false
}

// PCIDevices returns the distinct device descriptions of the pcidev lines
// with their bus address stripped, in log order
func (l *Log) PCIDevices() []string {
	var devices []string
	seen := make(map[string]bool)
	for _, v := range l.Strings(PCIDevice) {
		if len(v) <= pciDeviceIDLength {
			continue
		}
		dev := v[pciDeviceIDLength:]
		if !seen[dev] {
			seen[dev] = true
			devices = append(devices, dev)
		}
	}
	return devices
}
