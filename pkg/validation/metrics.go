package validation

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics exports node results in the Prometheus text format, suitable for
// the node exporter textfile collector
type Metrics struct {
	registry *prometheus.Registry
	result   *prometheus.GaugeVec
	duration *prometheus.GaugeVec
}

// NewMetrics creates the gauges on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		result: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "node_validation_result",
			Help: "Result of a validation test case on a node (1 passed, 0 failed).",
		}, []string{"testcase", "node"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "node_validation_duration_seconds",
			Help: "Time spent evaluating a validation test case.",
		}, []string{"testcase"}),
	}
	m.registry.MustRegister(m.result, m.duration)
	return m
}

// ObserveDuration records the evaluation time of a test case
func (m *Metrics) ObserveDuration(testCase string, d time.Duration) {
	m.duration.WithLabelValues(testCase).Set(d.Seconds())
}

// Collect sets one result gauge per test case and node of the report
func (m *Metrics) Collect(r *Report) {
	for _, tc := range r.StackValidation.TestCases {
		for _, n := range tc.Nodes {
			v := 0.0
			if n.Result {
				v = 1
			}
			m.result.WithLabelValues(tc.Name, n.Name).Set(v)
		}
	}
}

// Write encodes every gauge in the text exposition format
func (m *Metrics) Write(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}

// WriteFile writes the metrics through a temporary file renamed into place
func (m *Metrics) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
