// Package window detects recurring short activity sequences: bounded-length
// windows of one actor's events whose first and last timestamps fall within
// a configured span. Windows shorter than 3 are left to the pairwise
// detectors.
package window

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/crimson-sun/tracelens/internal/engine/grouper"
)

// minWindow is the smallest window length considered. Length-2 patterns are
// already covered by redundancy and merge detection.
const minWindow = 3

// Options bounds the search.
type Options struct {
	MaxLen      int           // largest window length, capped at sequence length
	Threshold   time.Duration // inclusive span between first and last event
	MaxReported int           // candidate list cap; negative means uncapped
}

// Candidate is a recurring sequence: the ordered activity tuple and how
// often it was observed across all traces and actors.
type Candidate struct {
	Labels []string
	Count  int
}

// Detector counts qualifying windows by their activity-label tuple. Two
// windows are the same sequence iff their tuples are equal, regardless of
// trace, actor, or position.
type Detector struct {
	opts   Options
	counts map[string]*Candidate
}

// New creates a Detector.
func New(opts Options) *Detector {
	return &Detector{opts: opts, counts: make(map[string]*Candidate)}
}

// keySep joins tuple labels into a map key. Unit separator: effectively
// absent from activity labels.
const keySep = "\x1f"

// Scan slides windows of every length from 3 up to min(len, MaxLen) across
// one actor sequence. A window qualifies iff its boundary timestamps are
// both parseable and 0 < Δt ≤ threshold.
func (d *Detector) Scan(seq grouper.ActorSequence) {
	n := len(seq.Events)
	maxw := d.opts.MaxLen
	if n < maxw {
		maxw = n
	}
	for w := minWindow; w <= maxw; w++ {
		for i := 0; i+w <= n; i++ {
			j := i + w - 1
			if !seq.Parsed[i] || !seq.Parsed[j] {
				continue
			}
			dt := seq.Times[j].Sub(seq.Times[i])
			if dt <= 0 || dt > d.opts.Threshold {
				continue
			}
			labels := make([]string, w)
			for k := 0; k < w; k++ {
				labels[k] = seq.Events[i+k].Activity
			}
			key := strings.Join(labels, keySep)
			if c, ok := d.counts[key]; ok {
				c.Count++
			} else {
				d.counts[key] = &Candidate{Labels: labels, Count: 1}
			}
		}
	}
}

// Distinct returns how many distinct qualifying tuples were observed,
// including those seen only once.
func (d *Detector) Distinct() int {
	return len(d.counts)
}

// Candidates returns the tuples observed at least twice, sorted by count
// descending, window length descending, then lexicographic tuple order, and
// truncated to MaxReported.
func (d *Detector) Candidates() []Candidate {
	out := make([]Candidate, 0, len(d.counts))
	for _, c := range d.counts {
		if c.Count >= 2 {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if len(out[i].Labels) != len(out[j].Labels) {
			return len(out[i].Labels) > len(out[j].Labels)
		}
		return slices.Compare(out[i].Labels, out[j].Labels) < 0
	})
	if d.opts.MaxReported >= 0 && len(out) > d.opts.MaxReported {
		out = out[:d.opts.MaxReported]
	}
	return out
}
