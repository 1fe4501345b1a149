package tracelens

import (
	"fmt"
	"io"

	"github.com/crimson-sun/tracelens/internal/engine"
	"github.com/crimson-sun/tracelens/internal/xes"
)

// Analyzer runs the detector engine over XES event logs.
// Safe for concurrent use; each analysis is independent.
type Analyzer struct {
	engine *engine.Engine
	keys   xes.Keys
}

// New creates an Analyzer. Options left unset keep their defaults.
func New(opts ...Option) (*Analyzer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	eng, err := engine.New(o.engine)
	if err != nil {
		return nil, fmt.Errorf("tracelens: %w", err)
	}
	return &Analyzer{engine: eng, keys: o.keys}, nil
}

// Analyze runs the detectors over already-constructed traces. Trace order
// is significant: indices (used in long-trace findings and synthetic actor
// names) follow slice position.
func (a *Analyzer) Analyze(traces []Trace) (*Report, error) {
	return reportFromModel(a.engine.Analyze(tracesToModel(traces))), nil
}

// AnalyzeReader parses an XES document from r and analyzes it.
func (a *Analyzer) AnalyzeReader(r io.Reader) (*Report, error) {
	traces, err := xes.Parse(r, a.keys)
	if err != nil {
		return nil, fmt.Errorf("tracelens: %w", err)
	}
	return reportFromModel(a.engine.Analyze(traces)), nil
}

// AnalyzeFile parses the XES log at path and analyzes it.
// Files ending in .gz are transparently decompressed.
func (a *Analyzer) AnalyzeFile(path string) (*Report, error) {
	traces, err := xes.ParseFile(path, a.keys)
	if err != nil {
		return nil, fmt.Errorf("tracelens: %w", err)
	}
	return reportFromModel(a.engine.Analyze(traces)), nil
}
