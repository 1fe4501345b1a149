package pairwise

import (
	"fmt"
	"testing"
	"time"

	"github.com/crimson-sun/tracelens/internal/engine/grouper"
	"github.com/crimson-sun/tracelens/internal/model"
)

var t0 = time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)

// seq builds a single-actor chronological sequence from (activity, offset)
// pairs. An offset of -1 produces an unparseable timestamp.
func seq(t *testing.T, steps ...any) grouper.ActorSequence {
	t.Helper()
	if len(steps)%2 != 0 {
		t.Fatal("steps must be (activity, offsetSeconds) pairs")
	}
	var events []model.Event
	for i := 0; i < len(steps); i += 2 {
		act := steps[i].(string)
		off := steps[i+1].(int)
		ts := ""
		if off >= 0 {
			ts = t0.Add(time.Duration(off) * time.Second).Format(time.RFC3339)
		} else {
			ts = "garbage"
		}
		events = append(events, model.Event{Actor: "alice", Activity: act, Timestamp: ts})
	}
	g := grouper.New(grouper.Options{})
	return g.Group(model.Trace{Events: events}).Sequences[0]
}

func allOn() Options {
	return Options{Redundancy: true, Merge: true, Threshold: 60 * time.Second}
}

func TestRedundancyAdjacentRepeats(t *testing.T) {
	d := New(allOn())
	d.Scan(seq(t, "submit", 0, "submit", 5, "submit", 10, "approve", 15, "submit", 20))

	red := d.Redundancies()
	if len(red) != 1 {
		t.Fatalf("expected 1 redundant activity, got %d", len(red))
	}
	if red[0].Activity != "submit" || red[0].Count != 2 {
		t.Fatalf("expected submit x2, got %+v", red[0])
	}
}

func TestRedundancyIgnoresTimestamps(t *testing.T) {
	d := New(allOn())
	// Unparseable timestamps sort last but both events keep adjacency.
	d.Scan(seq(t, "a", 0, "mint", -1, "mint", -1))

	red := d.Redundancies()
	if len(red) != 1 || red[0].Count != 1 {
		t.Fatalf("expected mint x1 regardless of timestamps, got %+v", red)
	}
}

func TestMergeWithinThreshold(t *testing.T) {
	d := New(allOn())
	d.Scan(seq(t, "submit", 0, "approve", 30))

	m := d.Merges()
	if len(m) != 1 {
		t.Fatalf("expected 1 merge pair, got %d", len(m))
	}
	if m[0].Prev != "submit" || m[0].Curr != "approve" || m[0].Count != 1 {
		t.Fatalf("unexpected merge: %+v", m[0])
	}
}

func TestMergeBoundary(t *testing.T) {
	// Exactly at the threshold counts; one second above does not.
	d := New(allOn())
	d.Scan(seq(t, "a", 0, "b", 60))
	if len(d.Merges()) != 1 {
		t.Fatal("Δt == threshold must count")
	}

	d = New(allOn())
	d.Scan(seq(t, "a", 0, "b", 61))
	if len(d.Merges()) != 0 {
		t.Fatal("Δt == threshold+1 must not count")
	}
}

func TestMergeZeroDelta(t *testing.T) {
	d := New(allOn())
	d.Scan(seq(t, "a", 0, "b", 0))
	if len(d.Merges()) != 0 {
		t.Fatal("Δt == 0 must not count")
	}
}

func TestMergeUnparseableTimestamp(t *testing.T) {
	d := New(allOn())
	d.Scan(seq(t, "a", 0, "b", 10, "c", -1))
	// Only (a,b) qualifies; the pair touching the unparseable event is excluded.
	m := d.Merges()
	if len(m) != 1 || m[0].Prev != "a" {
		t.Fatalf("expected only (a,b), got %+v", m)
	}
}

func TestFlagsOff(t *testing.T) {
	d := New(Options{Threshold: 60 * time.Second})
	d.Scan(seq(t, "submit", 0, "submit", 5))
	if len(d.Redundancies()) != 0 || len(d.Merges()) != 0 {
		t.Fatal("disabled detectors must count nothing")
	}
}

func TestRedundancyAndMergeIndependent(t *testing.T) {
	// Two "submit" events 5s apart, threshold 60: both detectors fire.
	d := New(allOn())
	d.Scan(seq(t, "submit", 0, "submit", 5))

	red := d.Redundancies()
	if len(red) != 1 || red[0].Count != 1 {
		t.Fatalf("expected Redundancy[submit]=1, got %+v", red)
	}
	m := d.Merges()
	if len(m) != 1 || m[0].Count != 1 {
		t.Fatalf("expected Merge[(submit,submit)]=1, got %+v", m)
	}
}

func TestAccumulationAcrossSequences(t *testing.T) {
	d := New(allOn())
	for i := 0; i < 3; i++ {
		d.Scan(seq(t, "mint", 0, "mint", 5))
	}
	red := d.Redundancies()
	if red[0].Count != 3 {
		t.Fatalf("expected count 3 across sequences, got %d", red[0].Count)
	}
}

func TestResultOrdering(t *testing.T) {
	d := New(allOn())
	// burn repeats twice, approve once; equal-count labels sort ascending.
	d.Scan(seq(t, "burn", 0, "burn", 5, "burn", 10))
	d.Scan(seq(t, "approve", 0, "approve", 5))
	d.Scan(seq(t, "zmint", 0, "zmint", 5))

	red := d.Redundancies()
	want := []ActivityCount{{"burn", 2}, {"approve", 1}, {"zmint", 1}}
	for i, w := range want {
		if red[i] != w {
			t.Fatalf("position %d: expected %+v, got %+v", i, w, red[i])
		}
	}
}

func TestEmptySequence(t *testing.T) {
	d := New(allOn())
	d.Scan(grouper.ActorSequence{Actor: "alice"})
	if len(d.Redundancies()) != 0 || len(d.Merges()) != 0 {
		t.Fatal("empty sequence must produce nothing")
	}
}

func ExampleDetector_Merges() {
	d := New(Options{Merge: true, Threshold: time.Minute})
	g := grouper.New(grouper.Options{})
	grp := g.Group(model.Trace{Events: []model.Event{
		{Actor: "alice", Activity: "submit", Timestamp: "2023-05-01T10:00:00Z"},
		{Actor: "alice", Activity: "approve", Timestamp: "2023-05-01T10:00:30Z"},
	}})
	d.Scan(grp.Sequences[0])
	for _, m := range d.Merges() {
		fmt.Printf("%d× %s → %s\n", m.Count, m.Prev, m.Curr)
	}
	// Output: 1× submit → approve
}
