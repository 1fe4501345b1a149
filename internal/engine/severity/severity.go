// Package severity maps raw detector counts onto severity tiers and
// assembles the final report: findings grouped by category in a fixed
// display order, plus the run summary.
package severity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crimson-sun/tracelens/internal/engine/gasdetect"
	"github.com/crimson-sun/tracelens/internal/engine/pairwise"
	"github.com/crimson-sun/tracelens/internal/engine/tracelen"
	"github.com/crimson-sun/tracelens/internal/engine/window"
	"github.com/crimson-sun/tracelens/internal/model"
)

// Limits holds the count thresholds separating severity tiers. High and
// Medium apply to merge and redundancy counts; SequenceHigh is the
// sequence-specific High threshold.
type Limits struct {
	High         int
	Medium       int
	SequenceHigh int
}

// DefaultLimits returns the standard thresholds.
func DefaultLimits() Limits {
	return Limits{High: 3, Medium: 2, SequenceHigh: 5}
}

// Classifier derives severity tiers from raw counts.
type Classifier struct {
	limits Limits
}

// NewClassifier creates a Classifier with the given limits.
func NewClassifier(l Limits) *Classifier {
	return &Classifier{limits: l}
}

// Classify maps a count to a tier: count ≥ High → High, count ≥ Medium →
// Medium, else Low.
func (c *Classifier) Classify(count int) model.Severity {
	switch {
	case count >= c.limits.High:
		return model.High
	case count >= c.limits.Medium:
		return model.Medium
	default:
		return model.Low
	}
}

// ClassifySequence maps a sequence occurrence count to a tier. Sequence
// candidates already require two occurrences, so everything below
// SequenceHigh is Medium.
func (c *Classifier) ClassifySequence(count int) model.Severity {
	if count >= c.limits.SequenceHigh {
		return model.High
	}
	return model.Medium
}

// Input carries every detector's raw results into aggregation.
type Input struct {
	TracesAnalyzed int
	Percentile     int

	Merges            []pairwise.PairCount
	Redundancies      []pairwise.ActivityCount
	SequencesDistinct int
	Sequences         []window.Candidate

	OutOfGasTotal int
	OutOfGas      []gasdetect.Entry

	TraceLengthEnabled bool
	TraceLength        tracelen.Result
	IdentifierKey      string
}

// Aggregate builds the report: per category, findings sorted by severity
// rank, count descending, then description — a total order, so repeated runs
// on identical input produce identical reports.
func (c *Classifier) Aggregate(in Input) *model.Report {
	byCat := map[model.Category][]model.Finding{}
	add := func(cat model.Category, sev model.Severity, count int, desc string) {
		byCat[cat] = append(byCat[cat], model.Finding{
			Category: cat, Severity: sev, Count: count, Description: desc,
		})
	}

	mergesTotal := 0
	for _, m := range in.Merges {
		mergesTotal += m.Count
		add(model.CategoryMerge, c.Classify(m.Count), m.Count,
			fmt.Sprintf("%d× %s → %s", m.Count, m.Prev, m.Curr))
	}

	redundantTotal := 0
	for _, r := range in.Redundancies {
		redundantTotal += r.Count
		add(model.CategoryRedundancy, c.Classify(r.Count), r.Count,
			fmt.Sprintf("'%s' %d× redundant", r.Activity, r.Count))
	}

	for _, s := range in.Sequences {
		add(model.CategorySequence, c.ClassifySequence(s.Count), s.Count,
			fmt.Sprintf("%d× %s", s.Count, strings.Join(s.Labels, " → ")))
	}

	// Out-of-gas is a hard failure, not a statistical outlier: always High.
	for _, e := range in.OutOfGas {
		add(model.CategoryOutOfGas, model.High, 1,
			fmt.Sprintf("'%s' @ %s (gas==gasLimit==%s)", e.Activity, displayTime(e), e.Gas))
	}

	threshold := formatThreshold(in.TraceLength.Threshold)
	for _, t := range in.TraceLength.Top {
		desc := fmt.Sprintf("Trace #%d: %d activities (threshold %s)", t.TraceIndex, t.Length, threshold)
		if t.Identifier != "" {
			desc += fmt.Sprintf(" [%s=%s]", in.IdentifierKey, t.Identifier)
		}
		add(model.CategoryTraceLength, model.High, t.Length, desc)
	}

	report := &model.Report{
		Summary: model.RunSummary{
			TracesAnalyzed:         in.TracesAnalyzed,
			MergesIdentified:       mergesTotal,
			RedundanciesIdentified: redundantTotal,
			SequencesIdentified:    in.SequencesDistinct,
			SequencesShown:         len(in.Sequences),
			OutOfGasIdentified:     in.OutOfGasTotal,
			OutOfGasShown:          len(in.OutOfGas),
			LongTracesIdentified:   in.TraceLength.FlaggedCount,
			LongTracesShown:        len(in.TraceLength.Top),
			TraceLengthEnabled:     in.TraceLengthEnabled,
			Percentile:             in.Percentile,
			TraceLengthThreshold:   in.TraceLength.Threshold,
		},
	}
	for _, cat := range model.Categories() {
		findings := byCat[cat]
		sortFindings(findings)
		report.Categories = append(report.Categories, model.CategoryFindings{
			Category: cat,
			Findings: findings,
		})
	}
	return report
}

func sortFindings(fs []model.Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].Severity != fs[j].Severity {
			return fs[i].Severity < fs[j].Severity
		}
		if fs[i].Count != fs[j].Count {
			return fs[i].Count > fs[j].Count
		}
		return fs[i].Description < fs[j].Description
	})
}

func displayTime(e gasdetect.Entry) string {
	if e.TimeOK {
		return e.Time.Format(time.RFC3339)
	}
	if e.Timestamp == "" {
		return "unknown"
	}
	return e.Timestamp
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
