package model

// Event is one recorded action inside a trace, as produced by the XES parser.
// Well-known attributes are lifted into named fields; everything else lands
// in Attrs. Events are read-only inputs to the engine.
type Event struct {
	Activity  string            // activity label (e.g. concept:name)
	Timestamp string            // raw textual timestamp, parsed lazily via timeparse
	Actor     string            // explicit actor attribute, "" when absent
	Status    string            // transaction status field, "" when absent
	Gas       string            // resource-used field, "" when absent
	GasLimit  string            // resource-limit field, "" when absent
	Attrs     map[string]string // residual attributes, nil when none
}

// Trace is one complete recorded execution: an ordered event list plus
// trace-level attributes. Index is the stable ingestion-order position.
type Trace struct {
	Index  int
	Attrs  map[string]string
	Events []Event
}

// Len returns the trace's event count.
func (t Trace) Len() int { return len(t.Events) }
