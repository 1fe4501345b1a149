package tracelens

import "github.com/crimson-sun/tracelens/internal/model"

// Event is one step in a trace.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Event struct {
	Activity  string            `json:"activity"`
	Timestamp string            `json:"timestamp"` // raw attribute value, parsed lazily
	Actor     string            `json:"actor,omitempty"`
	Status    string            `json:"status,omitempty"`
	Gas       string            `json:"gas,omitempty"`
	GasLimit  string            `json:"gas_limit,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"` // remaining XES attributes
}

// Trace is one case: an ordered list of events plus trace-level attributes.
type Trace struct {
	Attrs  map[string]string `json:"attrs,omitempty"`
	Events []Event           `json:"events"`
}

// tracesToModel converts public traces to the internal representation,
// assigning positional indices.
func tracesToModel(traces []Trace) []model.Trace {
	out := make([]model.Trace, len(traces))
	for i, t := range traces {
		mt := model.Trace{Index: i, Attrs: t.Attrs, Events: make([]model.Event, len(t.Events))}
		for j, e := range t.Events {
			mt.Events[j] = model.Event{
				Activity:  e.Activity,
				Timestamp: e.Timestamp,
				Actor:     e.Actor,
				Status:    e.Status,
				Gas:       e.Gas,
				GasLimit:  e.GasLimit,
				Attrs:     e.Attrs,
			}
		}
		out[i] = mt
	}
	return out
}
