// Package render turns a findings report into its text and JSON
// representations.
package render

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/tracelens/internal/model"
)

// Text renders the report as plain text: title, per-category findings with
// severity markers, and the summary table.
func Text(r *model.Report) string {
	var b strings.Builder
	title := "Optimization Report for XES Analysis"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	for _, cf := range r.Categories {
		if len(cf.Findings) == 0 {
			continue
		}
		b.WriteString(cf.Category.String() + "\n")
		for _, f := range cf.Findings {
			fmt.Fprintf(&b, "  [%s] %s\n", strings.ToUpper(f.Severity.String()), f.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("Summary\n")
	for _, row := range summaryRows(r.Summary) {
		fmt.Fprintf(&b, "  %-28s %s\n", row[0], row[1])
	}
	return b.String()
}

// JSON renders the report as indented JSON with a stable field order.
func JSON(r *model.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

func summaryRows(s model.RunSummary) [][2]string {
	longTraces := fmt.Sprintf("%d (shown: %d)", s.LongTracesIdentified, s.LongTracesShown)
	if !s.TraceLengthEnabled {
		longTraces = "disabled"
	}
	return [][2]string{
		{"Traces analyzed", strconv.Itoa(s.TracesAnalyzed)},
		{"Merges identified", strconv.Itoa(s.MergesIdentified)},
		{"Redundancies identified", strconv.Itoa(s.RedundanciesIdentified)},
		{"Sequences identified", fmt.Sprintf("%d (shown: %d)", s.SequencesIdentified, s.SequencesShown)},
		{"Out-of-Gas Exceptions", fmt.Sprintf("%d (shown: %d)", s.OutOfGasIdentified, s.OutOfGasShown)},
		{"Long traces", longTraces},
		{fmt.Sprintf("Trace length threshold (P%d)", s.Percentile),
			strconv.FormatFloat(s.TraceLengthThreshold, 'g', -1, 64)},
	}
}

// RunContext collects runtime facts for the reproducibility footnote.
type RunContext struct {
	RunID     string `yaml:"run_id"`
	StartedAt string `yaml:"run_started_at"`
	GoVersion string `yaml:"go"`
	OS        string `yaml:"os"`
	Arch      string `yaml:"arch"`
}

// NewRunContext builds the runtime context from a run summary.
func NewRunContext(s model.RunSummary) RunContext {
	return RunContext{
		RunID:     s.RunID,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Footnote renders the reproducibility footnote: the runtime context and the
// full configuration snapshot as YAML.
func Footnote(s model.RunSummary, cfg any) (string, error) {
	snapshot := struct {
		Run    RunContext `yaml:"run"`
		Config any        `yaml:"config_snapshot"`
	}{Run: NewRunContext(s), Config: cfg}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("render: marshal snapshot: %w", err)
	}
	return "Parameter footnote (reproducibility)\n" + string(data), nil
}
