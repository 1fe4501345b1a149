// Package gasdetect flags resource-exhaustion failures: events whose status
// marks a failed transaction and whose gas usage hit the gas limit exactly.
// It scans raw traces, independent of actor grouping.
package gasdetect

import (
	"sort"
	"strconv"
	"time"

	"github.com/crimson-sun/tracelens/internal/model"
	"github.com/crimson-sun/tracelens/internal/timeparse"
)

// Options bounds the reported entry list.
type Options struct {
	MaxReported int // negative means uncapped
}

// Entry is one flagged event.
type Entry struct {
	Activity  string
	Timestamp string // raw value, kept for display when unparseable
	Time      time.Time
	TimeOK    bool
	Gas       string // the matched gas == gasLimit value
}

// Detector collects out-of-gas entries across traces.
type Detector struct {
	opts    Options
	entries []Entry
}

// New creates a Detector.
func New(opts Options) *Detector {
	return &Detector{opts: opts}
}

// failedStatus reports whether the status literal marks a failed
// transaction. Ethereum exports use "0x0"; some tools emit "false".
func failedStatus(s string) bool {
	return s == "0x0" || s == "false"
}

// Scan checks every event in the trace. An event is flagged when its status
// indicates failure and gas equals gasLimit, both parsed as integers.
// Non-numeric values never match and never error.
func (d *Detector) Scan(t model.Trace) {
	for _, e := range t.Events {
		if !failedStatus(e.Status) || e.Gas == "" || e.GasLimit == "" {
			continue
		}
		gas, err := strconv.ParseInt(e.Gas, 10, 64)
		if err != nil {
			continue
		}
		limit, err := strconv.ParseInt(e.GasLimit, 10, 64)
		if err != nil {
			continue
		}
		if gas != limit {
			continue
		}
		ts, ok := timeparse.Parse(e.Timestamp)
		d.entries = append(d.entries, Entry{
			Activity:  e.Activity,
			Timestamp: e.Timestamp,
			Time:      ts,
			TimeOK:    ok,
			Gas:       e.Gas,
		})
	}
}

// Total returns how many events were flagged, before truncation.
func (d *Detector) Total() int {
	return len(d.entries)
}

// Entries returns the flagged events, newest first, unparseable timestamps
// last, truncated to MaxReported.
func (d *Detector) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimeOK != out[j].TimeOK {
			return out[i].TimeOK
		}
		if !out[i].TimeOK {
			return false
		}
		return out[i].Time.After(out[j].Time)
	})
	if d.opts.MaxReported >= 0 && len(out) > d.opts.MaxReported {
		out = out[:d.opts.MaxReported]
	}
	return out
}
