// Package pairwise scans each actor sequence for adjacent-pair patterns:
// back-to-back repeats of the same activity (redundancy) and consecutive
// activities close enough in time to be merge candidates.
package pairwise

import (
	"sort"
	"time"

	"github.com/crimson-sun/tracelens/internal/engine/grouper"
)

// Options controls which pair patterns are counted.
type Options struct {
	Redundancy bool
	Merge      bool
	Threshold  time.Duration // merge window upper bound, inclusive
}

// ActivityCount is a redundancy tally for one activity label.
type ActivityCount struct {
	Activity string
	Count    int
}

// PairCount is a merge tally for one ordered activity pair.
type PairCount struct {
	Prev, Curr string
	Count      int
}

type pairKey struct{ prev, curr string }

// Detector accumulates pair counts across every sequence it scans. One
// Detector per analysis run; counts are associative across sequences, so
// scan order never changes the totals.
type Detector struct {
	opts      Options
	redundant map[string]int
	merges    map[pairKey]int
}

// New creates a Detector.
func New(opts Options) *Detector {
	return &Detector{
		opts:      opts,
		redundant: make(map[string]int),
		merges:    make(map[pairKey]int),
	}
}

// Scan walks one actor sequence in chronological order. Redundancy compares
// labels only; merge requires both timestamps parseable and 0 < Δt ≤
// threshold, which also excludes duplicate-timestamp pairs.
func (d *Detector) Scan(seq grouper.ActorSequence) {
	for i := 1; i < len(seq.Events); i++ {
		prev, curr := seq.Events[i-1], seq.Events[i]

		if d.opts.Redundancy && curr.Activity == prev.Activity {
			d.redundant[curr.Activity]++
		}

		if d.opts.Merge && seq.Parsed[i-1] && seq.Parsed[i] {
			dt := seq.Times[i].Sub(seq.Times[i-1])
			if dt > 0 && dt <= d.opts.Threshold {
				d.merges[pairKey{prev.Activity, curr.Activity}]++
			}
		}
	}
}

// Redundancies returns the accumulated per-activity counts, sorted by count
// descending then label ascending.
func (d *Detector) Redundancies() []ActivityCount {
	out := make([]ActivityCount, 0, len(d.redundant))
	for a, c := range d.redundant {
		out = append(out, ActivityCount{Activity: a, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Activity < out[j].Activity
	})
	return out
}

// Merges returns the accumulated per-pair counts, sorted by count descending
// then pair ascending.
func (d *Detector) Merges() []PairCount {
	out := make([]PairCount, 0, len(d.merges))
	for k, c := range d.merges {
		out = append(out, PairCount{Prev: k.prev, Curr: k.curr, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Prev != out[j].Prev {
			return out[i].Prev < out[j].Prev
		}
		return out[i].Curr < out[j].Curr
	})
	return out
}
