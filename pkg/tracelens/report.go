package tracelens

import (
	"time"

	"github.com/crimson-sun/tracelens/internal/model"
)

// Finding is one detector result.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Finding struct {
	Category    string `json:"category"`    // Merges, Sequences, Redundancy, Trace Length, Out-of-Gas
	Severity    string `json:"severity"`    // High, Medium, Low
	Count       int    `json:"count"`       // How often the pattern occurred
	Description string `json:"description"` // Human-readable finding text
}

// CategoryFindings groups the findings of one category in display order.
type CategoryFindings struct {
	Category string    `json:"category"`
	Findings []Finding `json:"findings"`
}

// Summary holds the aggregate statistics of one analysis run.
type Summary struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	TracesAnalyzed int       `json:"traces_analyzed"`

	MergesIdentified       int `json:"merges_identified"`
	RedundanciesIdentified int `json:"redundancies_identified"`
	SequencesIdentified    int `json:"sequences_identified"`
	SequencesShown         int `json:"sequences_shown"`
	OutOfGasIdentified     int `json:"out_of_gas_identified"`
	OutOfGasShown          int `json:"out_of_gas_shown"`
	LongTracesIdentified   int `json:"long_traces_identified"`
	LongTracesShown        int `json:"long_traces_shown"`

	TraceLengthEnabled   bool    `json:"trace_length_enabled"`
	Percentile           int     `json:"percentile"`
	TraceLengthThreshold float64 `json:"trace_length_threshold"`
}

// Report is the complete output of one analysis run.
type Report struct {
	Categories []CategoryFindings `json:"categories"`
	Summary    Summary            `json:"summary"`
}

// FindingsFor returns the findings of one category by display name, or nil.
func (r *Report) FindingsFor(category string) []Finding {
	for _, cf := range r.Categories {
		if cf.Category == category {
			return cf.Findings
		}
	}
	return nil
}

// reportFromModel converts the internal report to the public type.
func reportFromModel(m *model.Report) *Report {
	r := &Report{
		Categories: make([]CategoryFindings, len(m.Categories)),
		Summary: Summary{
			RunID:                  m.Summary.RunID,
			StartedAt:              m.Summary.StartedAt,
			TracesAnalyzed:         m.Summary.TracesAnalyzed,
			MergesIdentified:       m.Summary.MergesIdentified,
			RedundanciesIdentified: m.Summary.RedundanciesIdentified,
			SequencesIdentified:    m.Summary.SequencesIdentified,
			SequencesShown:         m.Summary.SequencesShown,
			OutOfGasIdentified:     m.Summary.OutOfGasIdentified,
			OutOfGasShown:          m.Summary.OutOfGasShown,
			LongTracesIdentified:   m.Summary.LongTracesIdentified,
			LongTracesShown:        m.Summary.LongTracesShown,
			TraceLengthEnabled:     m.Summary.TraceLengthEnabled,
			Percentile:             m.Summary.Percentile,
			TraceLengthThreshold:   m.Summary.TraceLengthThreshold,
		},
	}
	for i, cf := range m.Categories {
		pub := CategoryFindings{Category: cf.Category.String()}
		if len(cf.Findings) > 0 {
			pub.Findings = make([]Finding, len(cf.Findings))
		}
		for j, f := range cf.Findings {
			pub.Findings[j] = Finding{
				Category:    f.Category.String(),
				Severity:    f.Severity.String(),
				Count:       f.Count,
				Description: f.Description,
			}
		}
		r.Categories[i] = pub
	}
	return r
}
