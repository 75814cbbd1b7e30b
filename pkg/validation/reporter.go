/*
This file implements the rendering of validation reports:

- json, the indented report document
- summary, one colored line per test case and node
*/

package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/opnfv/kube-node-validator/pkg/types"
)

// ReportConfig defines the configuration for report generation
type ReportConfig struct {
	// Format is the report format to generate
	Format types.ReportFormat

	// Output is the report file, standard output when empty
	Output string
}

// Reporter renders and writes reports
type Reporter struct {
	config ReportConfig
}

// NewReporter creates a new reporter
func NewReporter(config ReportConfig) *Reporter {
	if config.Format == "" {
		config.Format = types.FormatJSON
	}
	return &Reporter{config: config}
}

// Render generates the report content
func (r *Reporter) Render(report *Report) (string, error) {
	switch r.config.Format {
	case types.FormatJSON:
		return generateJSON(report)
	case types.FormatSummary:
		return generateSummary(report), nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", r.config.Format)
	}
}

// Write renders the report to the configured file, or to stdout when no
// file is configured. It returns the path written, empty for stdout.
func (r *Reporter) Write(report *Report, stdout io.Writer) (string, error) {
	content, err := r.Render(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if r.config.Output == "" {
		_, err := io.WriteString(stdout, content)
		return "", err
	}

	if dir := filepath.Dir(r.config.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(r.config.Output, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return r.config.Output, nil
}

// generateJSON generates the indented JSON document
func generateJSON(report *Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

// generateSummary generates a brief colored summary
func generateSummary(report *Report) string {
	var sb strings.Builder
	passed := color.New(color.FgGreen).SprintFunc()
	failed := color.New(color.FgRed).SprintFunc()

	sv := report.StackValidation
	title := "Node validation summary"
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	total, ok := 0, 0
	for _, tc := range sv.TestCases {
		sb.WriteString(tc.Name + "\n")
		for _, n := range tc.Nodes {
			total++
			status := failed("FAILED")
			if n.Result {
				ok++
				status = passed("PASSED")
			}
			sb.WriteString(fmt.Sprintf("  %-40s %s\n", n.Name, status))
			if n.Error != "" {
				sb.WriteString(fmt.Sprintf("    error: %s\n", n.Error))
			}
			if n.Debug != "" {
				sb.WriteString(fmt.Sprintf("    debug: %s\n", n.Debug))
			}
		}
	}

	sb.WriteString(fmt.Sprintf("\n%d/%d node results passed\n", ok, total))
	if sv.Error != "" {
		sb.WriteString(failed("Error: "+sv.Error) + "\n")
	}
	if sv.TimeStamps != nil {
		sb.WriteString(fmt.Sprintf("Started %s, stopped %s\n", sv.TimeStamps.StartTime, sv.TimeStamps.StopTime))
	}
	return sb.String()
}
