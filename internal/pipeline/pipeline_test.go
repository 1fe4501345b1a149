package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/tracelens/internal/config"
)

const sampleLog = `<?xml version="1.0" encoding="UTF-8"?>
<log xes.version="1.0">
  <trace>
    <string key="concept:name" value="0xabc"/>
    <event>
      <string key="concept:name" value="submit"/>
      <date key="time:timestamp" value="2025-03-01T12:00:00Z"/>
      <string key="org:resource" value="alice"/>
    </event>
    <event>
      <string key="concept:name" value="submit"/>
      <date key="time:timestamp" value="2025-03-01T12:00:05Z"/>
      <string key="org:resource" value="alice"/>
    </event>
  </trace>
</log>`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.xes")
	if err := os.WriteFile(path, []byte(sampleLog), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestRunWritesReport(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	out := filepath.Join(t.TempDir(), "report.txt")
	cfg.Output.Path = out

	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	report, err := p.Run(context.Background(), writeSample(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if report.Summary.TracesAnalyzed != 1 {
		t.Errorf("traces analyzed = %d, want 1", report.Summary.TracesAnalyzed)
	}
	if report.Summary.RedundanciesIdentified != 1 {
		t.Errorf("redundancies = %d, want 1", report.Summary.RedundanciesIdentified)
	}
	if report.Summary.MergesIdentified != 1 {
		t.Errorf("merges = %d, want 1", report.Summary.MergesIdentified)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report file: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "'submit' 1× redundant") {
		t.Errorf("report missing redundancy finding:\n%s", got)
	}
	if !strings.Contains(got, "Parameter footnote (reproducibility)") {
		t.Errorf("report missing footnote:\n%s", got)
	}
}

func TestRunMissingLog(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.Path = filepath.Join(t.TempDir(), "report.txt")

	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	defer p.Close()

	if _, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent.xes")); err == nil {
		t.Fatal("expected error for missing log file")
	}
}

func TestFromConfigBadFormat(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.Format = "xml"

	if _, err := FromConfig(cfg); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}
