package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/crimson-sun/tracelens/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Categories: []model.CategoryFindings{
			{Category: model.CategoryMerge, Findings: []model.Finding{
				{Category: model.CategoryMerge, Severity: model.High, Count: 4, Description: "4× submit → approve"},
			}},
			{Category: model.CategorySequence},
			{Category: model.CategoryRedundancy, Findings: []model.Finding{
				{Category: model.CategoryRedundancy, Severity: model.Low, Count: 1, Description: "'submit' 1× redundant"},
			}},
			{Category: model.CategoryTraceLength},
			{Category: model.CategoryOutOfGas},
		},
		Summary: model.RunSummary{
			RunID:                  "run-1",
			StartedAt:              time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			TracesAnalyzed:         10,
			MergesIdentified:       4,
			RedundanciesIdentified: 1,
			SequencesIdentified:    8,
			SequencesShown:         2,
			TraceLengthEnabled:     true,
			Percentile:             99,
			TraceLengthThreshold:   42.5,
		},
	}
}

func TestText(t *testing.T) {
	out := Text(sampleReport())

	for _, want := range []string{
		"Optimization Report for XES Analysis",
		"Merges\n",
		"[HIGH] 4× submit → approve",
		"[LOW] 'submit' 1× redundant",
		"Traces analyzed",
		"8 (shown: 2)",
		"Trace length threshold (P99)",
		"42.5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sequences\n") {
		t.Errorf("empty category rendered:\n%s", out)
	}
}

func TestTextTraceLengthDisabled(t *testing.T) {
	r := sampleReport()
	r.Summary.TraceLengthEnabled = false
	out := Text(r)
	found := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Long traces") && strings.Contains(line, "disabled") {
			found = true
		}
	}
	if !found {
		t.Errorf("disabled trace length not rendered:\n%s", out)
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleReport())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal rendered JSON: %v", err)
	}
	if decoded.Summary.TracesAnalyzed != 10 {
		t.Errorf("traces analyzed = %d, want 10", decoded.Summary.TracesAnalyzed)
	}
	if got := decoded.Categories[0].Findings[0].Severity; got != model.High {
		t.Errorf("severity = %v, want high", got)
	}
}

func TestFootnote(t *testing.T) {
	cfg := map[string]any{"percentile": 99, "time_threshold_seconds": 60}
	note, err := Footnote(sampleReport().Summary, cfg)
	if err != nil {
		t.Fatalf("Footnote: %v", err)
	}
	for _, want := range []string{
		"Parameter footnote (reproducibility)",
		"run_id: run-1",
		"run_started_at: \"2025-03-01T12:00:00Z\"",
		"percentile: 99",
	} {
		if !strings.Contains(note, want) {
			t.Errorf("footnote missing %q:\n%s", want, note)
		}
	}
}
