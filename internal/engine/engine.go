// Package engine runs the detector pass: it groups traces into per-actor
// sequences, feeds every enabled detector, and assembles the severity-scored
// findings report.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/tracelens/internal/engine/gasdetect"
	"github.com/crimson-sun/tracelens/internal/engine/grouper"
	"github.com/crimson-sun/tracelens/internal/engine/pairwise"
	"github.com/crimson-sun/tracelens/internal/engine/severity"
	"github.com/crimson-sun/tracelens/internal/engine/tracelen"
	"github.com/crimson-sun/tracelens/internal/engine/window"
	"github.com/crimson-sun/tracelens/internal/model"
)

// Features toggles individual detectors. Disabling one changes only that
// category's output.
type Features struct {
	Merge       bool
	Redundancy  bool
	Sequence    bool
	OutOfGas    bool
	TraceLength bool
}

// Options is the engine's complete configuration, passed explicitly into
// New — there is no process-wide state, so concurrent engines with different
// options coexist.
type Options struct {
	TimeThreshold     time.Duration // merge/sequence window
	MaxSequenceLength int           // largest sequence window, ≥ 3
	Percentile        int           // long-trace percentile, 0–100

	MaxSequenceSuggestions  int
	MaxLongTraceSuggestions int
	MaxOutOfGasSuggestions  int

	Features Features
	Limits   severity.Limits

	FallbackFromTrace   bool
	TraceActorAttr      string
	LongTraceIdentifier string
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		TimeThreshold:           60 * time.Second,
		MaxSequenceLength:       5,
		Percentile:              99,
		MaxSequenceSuggestions:  10,
		MaxLongTraceSuggestions: 5,
		MaxOutOfGasSuggestions:  10,
		Features: Features{
			Merge:       true,
			Redundancy:  true,
			Sequence:    true,
			OutOfGas:    true,
			TraceLength: true,
		},
		Limits:              severity.DefaultLimits(),
		FallbackFromTrace:   true,
		TraceActorAttr:      "concept:name",
		LongTraceIdentifier: "blockNumber",
	}
}

// Engine analyzes traces with a fixed configuration. Safe for concurrent
// use: every Analyze call owns its accumulators.
type Engine struct {
	opts Options
	cls  *severity.Classifier
}

// New validates the options and creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.TimeThreshold <= 0 {
		return nil, fmt.Errorf("engine: time threshold must be positive, got %v", opts.TimeThreshold)
	}
	if opts.MaxSequenceLength < 3 {
		return nil, fmt.Errorf("engine: max sequence length must be at least 3, got %d", opts.MaxSequenceLength)
	}
	if opts.Percentile < 0 || opts.Percentile > 100 {
		return nil, fmt.Errorf("engine: percentile must be in [0,100], got %d", opts.Percentile)
	}
	return &Engine{opts: opts, cls: severity.NewClassifier(opts.Limits)}, nil
}

// Analyze runs one deterministic detector pass over the traces. Inputs are
// never mutated; the report is freshly built. An empty trace set yields an
// empty report, not an error.
func (e *Engine) Analyze(traces []model.Trace) *model.Report {
	started := time.Now()
	f := e.opts.Features

	grp := grouper.New(grouper.Options{
		FallbackFromTrace: e.opts.FallbackFromTrace,
		TraceActorAttr:    e.opts.TraceActorAttr,
	})
	pairs := pairwise.New(pairwise.Options{
		Redundancy: f.Redundancy,
		Merge:      f.Merge,
		Threshold:  e.opts.TimeThreshold,
	})
	seqs := window.New(window.Options{
		MaxLen:      e.opts.MaxSequenceLength,
		Threshold:   e.opts.TimeThreshold,
		MaxReported: e.opts.MaxSequenceSuggestions,
	})
	gas := gasdetect.New(gasdetect.Options{MaxReported: e.opts.MaxOutOfGasSuggestions})
	lengths := tracelen.New(tracelen.Options{
		Percentile:    e.opts.Percentile,
		MaxReported:   e.opts.MaxLongTraceSuggestions,
		IdentifierKey: e.opts.LongTraceIdentifier,
	})

	for _, t := range traces {
		lengths.Add(t)
		if f.OutOfGas {
			gas.Scan(t)
		}
		if f.Merge || f.Redundancy || f.Sequence {
			for _, seq := range grp.Group(t).Sequences {
				pairs.Scan(seq)
				if f.Sequence {
					seqs.Scan(seq)
				}
			}
		}
	}

	// The percentile threshold is computed regardless of the flag; only the
	// flagging itself is suppressed.
	lengthResult := lengths.Result()
	if !f.TraceLength {
		lengthResult.Top = nil
		lengthResult.FlaggedCount = 0
	}

	report := e.cls.Aggregate(severity.Input{
		TracesAnalyzed:     len(traces),
		Percentile:         e.opts.Percentile,
		Merges:             pairs.Merges(),
		Redundancies:       pairs.Redundancies(),
		SequencesDistinct:  seqs.Distinct(),
		Sequences:          seqs.Candidates(),
		OutOfGasTotal:      gas.Total(),
		OutOfGas:           gas.Entries(),
		TraceLengthEnabled: f.TraceLength,
		TraceLength:        lengthResult,
		IdentifierKey:      e.opts.LongTraceIdentifier,
	})
	report.Summary.RunID = uuid.NewString()
	report.Summary.StartedAt = started
	return report
}
