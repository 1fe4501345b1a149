// Package tracelen flags abnormally long traces: those whose event count
// strictly exceeds a percentile threshold over the run's length
// distribution.
package tracelen

import (
	"sort"

	"github.com/crimson-sun/tracelens/internal/model"
)

// Options controls the percentile and the reported list cap.
type Options struct {
	Percentile    int    // 0–100
	MaxReported   int    // negative means uncapped
	IdentifierKey string // trace attribute surfaced next to flagged traces
}

// TraceLength pairs a trace with its event count.
type TraceLength struct {
	TraceIndex int
	Length     int
	Identifier string // value of IdentifierKey, "" when absent
}

// Result is the detector's outcome for one run.
type Result struct {
	Threshold    float64       // percentile threshold over all lengths
	FlaggedCount int           // traces strictly above the threshold
	Top          []TraceLength // flagged traces, longest first, truncated
}

// Detector accumulates trace lengths across a run.
type Detector struct {
	opts   Options
	traces []TraceLength
}

// New creates a Detector.
func New(opts Options) *Detector {
	return &Detector{opts: opts}
}

// Add records one trace's length.
func (d *Detector) Add(t model.Trace) {
	d.traces = append(d.traces, TraceLength{
		TraceIndex: t.Index,
		Length:     t.Len(),
		Identifier: t.Attrs[d.opts.IdentifierKey],
	})
}

// Result computes the threshold and the flagged traces. With zero traces the
// threshold is 0 and nothing is flagged.
func (d *Detector) Result() Result {
	lengths := make([]int, len(d.traces))
	for i, t := range d.traces {
		lengths[i] = t.Length
	}
	res := Result{Threshold: Percentile(lengths, float64(d.opts.Percentile))}

	var flagged []TraceLength
	for _, t := range d.traces {
		if float64(t.Length) > res.Threshold {
			flagged = append(flagged, t)
		}
	}
	res.FlaggedCount = len(flagged)

	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].Length > flagged[j].Length
	})
	if d.opts.MaxReported >= 0 && len(flagged) > d.opts.MaxReported {
		flagged = flagged[:d.opts.MaxReported]
	}
	res.Top = flagged
	return res
}

// Percentile computes the p-th percentile of values using linear
// interpolation between closest ranks. Empty input yields 0.
func Percentile(values []int, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, values)
	sort.Ints(sorted)

	if p <= 0 {
		return float64(sorted[0])
	}
	if p >= 100 {
		return float64(sorted[n-1])
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= n {
		return float64(sorted[n-1])
	}
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
