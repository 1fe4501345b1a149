// Package output defines destinations for rendered analysis reports.
package output

import (
	"context"
	"fmt"

	"github.com/crimson-sun/tracelens/internal/model"
)

// Output defines the interface for report destinations.
type Output interface {
	Write(ctx context.Context, report *model.Report) error
	Close() error
}

// Format selects the rendering of a report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("output: unknown format %q", s)
	}
}
