package stdout

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/tracelens/internal/model"
	"github.com/crimson-sun/tracelens/internal/output"
	"github.com/crimson-sun/tracelens/internal/output/render"
)

// Output writes a rendered report to stdout.
type Output struct {
	w        io.Writer
	format   output.Format
	snapshot any
}

// New creates a stdout Output. For text format, a non-nil snapshot appends
// the reproducibility footnote after the report.
func New(format output.Format, snapshot any) *Output {
	return &Output{w: os.Stdout, format: format, snapshot: snapshot}
}

func (o *Output) Write(_ context.Context, report *model.Report) error {
	switch o.format {
	case output.FormatJSON:
		data, err := render.JSON(report)
		if err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
		_, err = o.w.Write(data)
		if err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	default:
		text := render.Text(report)
		if o.snapshot != nil {
			note, err := render.Footnote(report.Summary, o.snapshot)
			if err != nil {
				return fmt.Errorf("stdout output: %w", err)
			}
			text += "\n" + note
		}
		if _, err := io.WriteString(o.w, text); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
