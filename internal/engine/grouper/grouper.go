// Package grouper partitions a trace's events into per-actor chronological
// sequences, resolving a fallback actor identity for events that carry none.
package grouper

import (
	"fmt"
	"sort"
	"time"

	"github.com/crimson-sun/tracelens/internal/model"
	"github.com/crimson-sun/tracelens/internal/timeparse"
)

// Options controls actor identity resolution.
type Options struct {
	// FallbackFromTrace enables using a trace-level attribute as the actor
	// for events missing an explicit one.
	FallbackFromTrace bool
	// TraceActorAttr names the trace attribute tried first as fallback.
	TraceActorAttr string
}

// ActorSequence is one actor's chronologically sorted events within one
// trace. Times and Parsed are parallel to Events: Parsed[i] reports whether
// Times[i] holds a valid timestamp. Unparseable events sort last and keep
// their relative input order.
type ActorSequence struct {
	Actor  string
	Events []model.Event
	Times  []time.Time
	Parsed []bool
}

// Group is one trace's grouped view: its attributes, the fallback actor
// resolved once for the whole trace, and the actor sequences in first-seen
// actor order.
//
// When both the per-event actor and the configured trace attribute are
// absent, every such event is attributed to the synthetic identity
// "trace_<index>" — one synthetic actor per trace, by construction.
type Group struct {
	TraceIndex int
	Attrs      map[string]string
	Fallback   string
	Sequences  []ActorSequence
}

// Grouper builds per-actor sequences. Stateless across traces; safe to
// reuse within a run.
type Grouper struct {
	opts Options
}

// New creates a Grouper with the given options.
func New(opts Options) *Grouper {
	return &Grouper{opts: opts}
}

// Group partitions one trace. Identical input always yields an identical
// Group: the fallback is computed once from trace attributes (never from
// event iteration), actor order is first-seen, and the per-actor sort is
// stable.
func (g *Grouper) Group(t model.Trace) Group {
	out := Group{
		TraceIndex: t.Index,
		Attrs:      t.Attrs,
		Fallback:   g.fallbackActor(t),
	}

	synthetic := fmt.Sprintf("trace_%d", t.Index)
	byActor := make(map[string]int)
	for _, e := range t.Events {
		actor := e.Actor
		if actor == "" {
			actor = out.Fallback
		}
		if actor == "" {
			actor = synthetic
		}
		i, seen := byActor[actor]
		if !seen {
			i = len(out.Sequences)
			byActor[actor] = i
			out.Sequences = append(out.Sequences, ActorSequence{Actor: actor})
		}
		out.Sequences[i].Events = append(out.Sequences[i].Events, e)
	}

	for i := range out.Sequences {
		sortChronological(&out.Sequences[i])
	}
	return out
}

// fallbackActor resolves the trace-level fallback identity: the configured
// attribute, then concept:name, then the synthetic trace identity. Empty
// when fallback is disabled.
func (g *Grouper) fallbackActor(t model.Trace) string {
	if !g.opts.FallbackFromTrace {
		return ""
	}
	if v := t.Attrs[g.opts.TraceActorAttr]; v != "" {
		return v
	}
	if v := t.Attrs["concept:name"]; v != "" {
		return v
	}
	return fmt.Sprintf("trace_%d", t.Index)
}

func sortChronological(seq *ActorSequence) {
	n := len(seq.Events)
	seq.Times = make([]time.Time, n)
	seq.Parsed = make([]bool, n)

	idx := make([]int, n)
	for i, e := range seq.Events {
		seq.Times[i], seq.Parsed[i] = timeparse.Parse(e.Timestamp)
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if seq.Parsed[i] != seq.Parsed[j] {
			return seq.Parsed[i] // unparseable sorts last
		}
		if !seq.Parsed[i] {
			return false
		}
		return seq.Times[i].Before(seq.Times[j])
	})

	events := make([]model.Event, n)
	times := make([]time.Time, n)
	parsed := make([]bool, n)
	for pos, i := range idx {
		events[pos] = seq.Events[i]
		times[pos] = seq.Times[i]
		parsed[pos] = seq.Parsed[i]
	}
	seq.Events, seq.Times, seq.Parsed = events, times, parsed
}
