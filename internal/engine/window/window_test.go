package window

import (
	"reflect"
	"testing"
	"time"

	"github.com/crimson-sun/tracelens/internal/engine/grouper"
	"github.com/crimson-sun/tracelens/internal/model"
)

var t0 = time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)

// seq builds a single-actor sequence from (activity, offsetSeconds) pairs.
// Offset -1 yields an unparseable timestamp.
func seq(t *testing.T, steps ...any) grouper.ActorSequence {
	t.Helper()
	var events []model.Event
	for i := 0; i < len(steps); i += 2 {
		ts := "garbage"
		if off := steps[i+1].(int); off >= 0 {
			ts = t0.Add(time.Duration(off) * time.Second).Format(time.RFC3339)
		}
		events = append(events, model.Event{Actor: "alice", Activity: steps[i].(string), Timestamp: ts})
	}
	g := grouper.New(grouper.Options{})
	return g.Group(model.Trace{Events: events}).Sequences[0]
}

func opts() Options {
	return Options{MaxLen: 5, Threshold: 30 * time.Second, MaxReported: 10}
}

func TestSingleOccurrenceExcluded(t *testing.T) {
	d := New(opts())
	d.Scan(seq(t, "A", 0, "B", 10, "C", 20))

	if d.Distinct() != 1 {
		t.Fatalf("expected 1 distinct tuple, got %d", d.Distinct())
	}
	if got := d.Candidates(); len(got) != 0 {
		t.Fatalf("a tuple seen once must not be a candidate, got %v", got)
	}
}

func TestRecurringAcrossTraces(t *testing.T) {
	d := New(opts())
	d.Scan(seq(t, "A", 0, "B", 10, "C", 20))
	d.Scan(seq(t, "A", 0, "B", 5, "C", 25))

	c := d.Candidates()
	if len(c) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(c))
	}
	if !reflect.DeepEqual(c[0].Labels, []string{"A", "B", "C"}) || c[0].Count != 2 {
		t.Fatalf("unexpected candidate %+v", c[0])
	}
}

func TestThresholdBoundary(t *testing.T) {
	// Span of exactly the threshold counts.
	d := New(opts())
	d.Scan(seq(t, "A", 0, "B", 10, "C", 30))
	d.Scan(seq(t, "A", 0, "B", 10, "C", 30))
	if len(d.Candidates()) != 1 {
		t.Fatal("span == threshold must qualify")
	}

	// One second above does not.
	d = New(opts())
	d.Scan(seq(t, "A", 0, "B", 10, "C", 31))
	d.Scan(seq(t, "A", 0, "B", 10, "C", 31))
	if len(d.Candidates()) != 0 {
		t.Fatal("span == threshold+1 must not qualify")
	}
}

func TestZeroSpanExcluded(t *testing.T) {
	d := New(opts())
	d.Scan(seq(t, "A", 0, "B", 0, "C", 0))
	d.Scan(seq(t, "A", 0, "B", 0, "C", 0))
	if len(d.Candidates()) != 0 {
		t.Fatal("zero span must not qualify")
	}
}

func TestUnparseableBoundaryExcluded(t *testing.T) {
	d := New(opts())
	// The unparseable event sorts last, so it becomes the window's right
	// boundary and disqualifies it.
	d.Scan(seq(t, "A", 0, "B", 10, "C", -1))
	d.Scan(seq(t, "A", 0, "B", 10, "C", -1))
	if len(d.Candidates()) != 0 {
		t.Fatal("windows with an unparseable boundary must not qualify")
	}
}

func TestWindowLengthsUpToMax(t *testing.T) {
	d := New(Options{MaxLen: 4, Threshold: time.Minute, MaxReported: 10})
	// 5 events, 10s apart: windows of length 3 and 4 qualify, 5 exceeds MaxLen.
	for i := 0; i < 2; i++ {
		d.Scan(seq(t, "A", 0, "B", 10, "C", 20, "D", 30, "E", 40))
	}

	c := d.Candidates()
	lengths := map[int]int{}
	for _, cand := range c {
		lengths[len(cand.Labels)]++
	}
	if lengths[3] != 3 || lengths[4] != 2 {
		t.Fatalf("expected 3 tuples of len 3 and 2 of len 4, got %v", lengths)
	}
	if lengths[5] != 0 {
		t.Fatal("windows above MaxLen must not be counted")
	}
}

func TestOrderingAndTruncation(t *testing.T) {
	d := New(Options{MaxLen: 4, Threshold: time.Minute, MaxReported: 2})
	// (X,Y,Z) three times; (A,B,C) and (A,B,D) twice each.
	for i := 0; i < 3; i++ {
		d.Scan(seq(t, "X", 0, "Y", 10, "Z", 20))
	}
	for i := 0; i < 2; i++ {
		d.Scan(seq(t, "A", 0, "B", 10, "C", 20))
		d.Scan(seq(t, "A", 0, "B", 10, "D", 20))
	}

	c := d.Candidates()
	if len(c) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(c))
	}
	if !reflect.DeepEqual(c[0].Labels, []string{"X", "Y", "Z"}) {
		t.Fatalf("highest count first, got %v", c[0].Labels)
	}
	// Tie on count and length: lexicographic tuple order.
	if !reflect.DeepEqual(c[1].Labels, []string{"A", "B", "C"}) {
		t.Fatalf("lexicographic tie-break, got %v", c[1].Labels)
	}
}

func TestLongerWindowsFirstOnCountTie(t *testing.T) {
	d := New(Options{MaxLen: 4, Threshold: time.Minute, MaxReported: -1})
	for i := 0; i < 2; i++ {
		d.Scan(seq(t, "A", 0, "B", 10, "C", 20, "D", 30))
	}

	c := d.Candidates()
	// All tuples occur twice; length 4 sorts before length 3.
	if len(c[0].Labels) != 4 {
		t.Fatalf("expected the length-4 tuple first, got %v", c[0].Labels)
	}
}

func TestShortSequenceNoWindows(t *testing.T) {
	d := New(opts())
	d.Scan(seq(t, "A", 0, "B", 10))
	if d.Distinct() != 0 {
		t.Fatal("sequences shorter than 3 produce no windows")
	}
}
