package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Severity classifies a finding's weight. The ordering is total:
// High < Medium < Low (High sorts first in reports).
type Severity int

const (
	High Severity = iota
	Medium
	Low
)

// String returns the display name used in reports.
func (s Severity) String() string {
	switch s {
	case High:
		return "High"
	case Medium:
		return "Medium"
	default:
		return "Low"
	}
}

// MarshalJSON encodes the severity as its display name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its display name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "High":
		*s = High
	case "Medium":
		*s = Medium
	case "Low":
		*s = Low
	default:
		return fmt.Errorf("model: unknown severity %q", name)
	}
	return nil
}

// Category identifies which detector produced a finding.
type Category int

const (
	CategoryMerge Category = iota
	CategorySequence
	CategoryRedundancy
	CategoryTraceLength
	CategoryOutOfGas
)

// Categories lists all categories in report display order.
func Categories() []Category {
	return []Category{
		CategoryMerge,
		CategorySequence,
		CategoryRedundancy,
		CategoryTraceLength,
		CategoryOutOfGas,
	}
}

// String returns the display name used in reports.
func (c Category) String() string {
	switch c {
	case CategoryMerge:
		return "Merges"
	case CategorySequence:
		return "Sequences"
	case CategoryRedundancy:
		return "Redundancy"
	case CategoryTraceLength:
		return "Trace Length"
	case CategoryOutOfGas:
		return "Out-of-Gas"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the category as its display name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category from its display name.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, cat := range Categories() {
		if cat.String() == name {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("model: unknown category %q", name)
}

// Finding is one detector output: what was found, how often, how severe.
type Finding struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Count       int      `json:"count"`
	Description string   `json:"description"`
}

// CategoryFindings groups the findings of one category, already sorted for
// display.
type CategoryFindings struct {
	Category Category  `json:"category"`
	Findings []Finding `json:"findings"`
}

// RunSummary holds the aggregate statistics of one analysis pass.
type RunSummary struct {
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

// Report is the engine's complete output: grouped findings in display order
// plus the run summary. The engine never mutates its inputs; a Report is the
// only thing it produces.
type Report struct {
	Categories []CategoryFindings `json:"categories"`
	Summary    RunSummary         `json:"summary"`
}

// FindingsFor returns the findings of one category, or nil if absent.
func (r *Report) FindingsFor(c Category) []Finding {
	for _, cf := range r.Categories {
		if cf.Category == c {
			return cf.Findings
		}
	}
	return nil
}
