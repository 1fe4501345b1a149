package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/tracelens/internal/model"
	"github.com/crimson-sun/tracelens/internal/output"
	"github.com/crimson-sun/tracelens/internal/output/render"
)

// Output writes a rendered report to a file. The file is created or
// truncated on the first Write.
type Output struct {
	path     string
	format   output.Format
	snapshot any

	f *os.File
	w *bufio.Writer
}

// New creates a file output that writes to the given path. For text format,
// a non-nil snapshot appends the reproducibility footnote after the report.
func New(path string, format output.Format, snapshot any) *Output {
	return &Output{path: path, format: format, snapshot: snapshot}
}

func (o *Output) Write(_ context.Context, report *model.Report) error {
	if o.f == nil {
		f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("file output: open %s: %w", o.path, err)
		}
		o.f = f
		o.w = bufio.NewWriter(f)
	}

	switch o.format {
	case output.FormatJSON:
		data, err := render.JSON(report)
		if err != nil {
			return fmt.Errorf("file output: %w", err)
		}
		if _, err := o.w.Write(data); err != nil {
			return fmt.Errorf("file output: write: %w", err)
		}
	default:
		text := render.Text(report)
		if o.snapshot != nil {
			note, err := render.Footnote(report.Summary, o.snapshot)
			if err != nil {
				return fmt.Errorf("file output: %w", err)
			}
			text += "\n" + note
		}
		if _, err := io.WriteString(o.w, text); err != nil {
			return fmt.Errorf("file output: write: %w", err)
		}
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	if o.f == nil {
		return nil
	}
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}
