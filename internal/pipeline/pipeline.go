// Package pipeline connects the XES parser, the detector engine, and the
// report outputs into a one-shot analysis run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/tracelens/internal/config"
	"github.com/crimson-sun/tracelens/internal/engine"
	"github.com/crimson-sun/tracelens/internal/model"
	"github.com/crimson-sun/tracelens/internal/output"
	"github.com/crimson-sun/tracelens/internal/output/file"
	"github.com/crimson-sun/tracelens/internal/output/multi"
	"github.com/crimson-sun/tracelens/internal/output/stdout"
	"github.com/crimson-sun/tracelens/internal/output/webhook"
	"github.com/crimson-sun/tracelens/internal/xes"
)

// Pipeline connects the parser keys, engine, and output into an analysis run.
type Pipeline struct {
	keys   xes.Keys
	engine *engine.Engine
	output output.Output
}

// New creates a Pipeline from the given components.
func New(keys xes.Keys, eng *engine.Engine, out output.Output) *Pipeline {
	return &Pipeline{keys: keys, engine: eng, output: out}
}

// FromConfig builds a complete pipeline: engine options, XES attribute keys,
// and the report destinations the configuration names. The configuration
// itself becomes the snapshot embedded in text reports.
func FromConfig(cfg config.Config) (*Pipeline, error) {
	eng, err := engine.New(cfg.EngineOptions())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	var outs []output.Output
	if cfg.Output.Path != "" {
		outs = append(outs, file.New(cfg.Output.Path, format, cfg))
	} else {
		outs = append(outs, stdout.New(format, cfg))
	}
	if cfg.Output.WebhookURL != "" {
		outs = append(outs, webhook.New(cfg.Output.WebhookURL))
	}

	var out output.Output
	if len(outs) == 1 {
		out = outs[0]
	} else {
		out = multi.New(outs...)
	}
	return New(cfg.XESKeys(), eng, out), nil
}

// Run parses the XES log at path, analyzes it, and writes the report to the
// configured outputs. The report is also returned for programmatic use.
func (p *Pipeline) Run(ctx context.Context, path string) (*model.Report, error) {
	traces, err := xes.ParseFile(path, p.keys)
	if err != nil {
		return nil, fmt.Errorf("pipeline parse: %w", err)
	}
	slog.Info("parsed event log", "path", path, "traces", len(traces))

	report := p.engine.Analyze(traces)
	slog.Info("analysis complete",
		"run_id", report.Summary.RunID,
		"merges", report.Summary.MergesIdentified,
		"redundancies", report.Summary.RedundanciesIdentified,
		"sequences", report.Summary.SequencesIdentified,
		"out_of_gas", report.Summary.OutOfGasIdentified,
		"long_traces", report.Summary.LongTracesIdentified)

	if err := p.output.Write(ctx, report); err != nil {
		return nil, fmt.Errorf("pipeline output: %w", err)
	}
	return report, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
