// Package xes parses XES event logs (.xes, .xes.gz) into the in-memory
// trace model consumed by the engine.
package xes

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/crimson-sun/tracelens/internal/model"
)

// Keys names the XES attribute keys lifted into Event's typed fields.
// Anything else lands in the event's residual attribute map.
type Keys struct {
	Activity  string
	Timestamp string
	Actor     string
	Status    string
	Gas       string
	GasLimit  string
}

// DefaultKeys returns the standard XES extension keys plus the Ethereum
// export fields.
func DefaultKeys() Keys {
	return Keys{
		Activity:  "concept:name",
		Timestamp: "time:timestamp",
		Actor:     "org:resource",
		Status:    "status",
		Gas:       "gas",
		GasLimit:  "gasLimit",
	}
}

// xmlAttr is one typed XES attribute element (<string>, <date>, <int>, ...).
// Only the key/value pair matters here; the element name carries the XES
// type, which the detectors re-parse as needed.
type xmlAttr struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type xmlEvent struct {
	Attrs []xmlAttr `xml:",any"`
}

type xmlTrace struct {
	Events []xmlEvent `xml:"event"`
	Attrs  []xmlAttr  `xml:",any"`
}

// ParseFile reads an XES document from path and returns its traces in
// document order. Files ending in .gz are gunzipped transparently.
func ParseFile(path string, keys Keys) ([]model.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xes: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xes: gunzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return Parse(r, keys)
}

// Parse decodes an XES document. A document without traces yields an empty
// slice; malformed XML is an error (an upstream contract violation, not a
// data-quality issue).
func Parse(r io.Reader, keys Keys) ([]model.Trace, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var traces []model.Trace
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xes: malformed document: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "trace" {
			continue
		}
		var xt xmlTrace
		if err := dec.DecodeElement(&xt, &se); err != nil {
			return nil, fmt.Errorf("xes: trace %d: %w", len(traces), err)
		}
		traces = append(traces, convertTrace(len(traces), xt, keys))
	}
	return traces, nil
}

func convertTrace(idx int, xt xmlTrace, keys Keys) model.Trace {
	t := model.Trace{Index: idx}
	for _, a := range xt.Attrs {
		if a.Key == "" {
			continue
		}
		if t.Attrs == nil {
			t.Attrs = make(map[string]string)
		}
		t.Attrs[a.Key] = a.Value
	}
	t.Events = make([]model.Event, 0, len(xt.Events))
	for _, xe := range xt.Events {
		t.Events = append(t.Events, convertEvent(xe, keys))
	}
	return t
}

func convertEvent(xe xmlEvent, keys Keys) model.Event {
	var e model.Event
	for _, a := range xe.Attrs {
		switch a.Key {
		case "":
			// Attribute elements without a key are dropped.
		case keys.Activity:
			e.Activity = a.Value
		case keys.Timestamp:
			e.Timestamp = a.Value
		case keys.Actor:
			e.Actor = a.Value
		case keys.Status:
			e.Status = a.Value
		case keys.Gas:
			e.Gas = a.Value
		case keys.GasLimit:
			e.GasLimit = a.Value
		default:
			if e.Attrs == nil {
				e.Attrs = make(map[string]string)
			}
			e.Attrs[a.Key] = a.Value
		}
	}
	return e
}

// charsetReader decodes non-UTF-8 XES exports by IANA charset name.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("xes: unsupported charset %q", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
