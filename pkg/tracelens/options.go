package tracelens

import (
	"time"

	"github.com/crimson-sun/tracelens/internal/engine"
	"github.com/crimson-sun/tracelens/internal/engine/severity"
	"github.com/crimson-sun/tracelens/internal/xes"
)

type options struct {
	engine engine.Options
	keys   xes.Keys
}

// Option configures an Analyzer.
type Option func(*options)

// WithTimeThreshold sets the maximum gap between consecutive events for
// merge and sequence detection. Default: 60s.
func WithTimeThreshold(d time.Duration) Option {
	return func(o *options) { o.engine.TimeThreshold = d }
}

// WithMaxSequenceLength sets the longest activity window considered by the
// sequence detector. Default: 5.
func WithMaxSequenceLength(n int) Option {
	return func(o *options) { o.engine.MaxSequenceLength = n }
}

// WithPercentile sets the trace-length percentile above which traces are
// flagged as outliers. Default: 99.
func WithPercentile(p int) Option {
	return func(o *options) { o.engine.Percentile = p }
}

// WithMaxSuggestions caps how many sequence, long-trace, and out-of-gas
// findings are reported. Negative values remove the cap.
// Defaults: 10, 10, 5.
func WithMaxSuggestions(sequences, longTraces, outOfGas int) Option {
	return func(o *options) {
		o.engine.MaxSequenceSuggestions = sequences
		o.engine.MaxLongTraceSuggestions = longTraces
		o.engine.MaxOutOfGasSuggestions = outOfGas
	}
}

// Detectors selects which detectors run. The zero value disables all of
// them; start from AllDetectors and switch off what you do not need.
type Detectors struct {
	Merge       bool
	Redundancy  bool
	Sequence    bool
	OutOfGas    bool
	TraceLength bool
}

// AllDetectors returns a Detectors value with every detector enabled.
func AllDetectors() Detectors {
	return Detectors{Merge: true, Redundancy: true, Sequence: true, OutOfGas: true, TraceLength: true}
}

// WithDetectors selects which detectors run. Default: all.
func WithDetectors(d Detectors) Option {
	return func(o *options) {
		o.engine.Features = engine.Features{
			Merge:       d.Merge,
			Redundancy:  d.Redundancy,
			Sequence:    d.Sequence,
			OutOfGas:    d.OutOfGas,
			TraceLength: d.TraceLength,
		}
	}
}

// WithSeverityLimits sets the count thresholds for severity classification:
// counts at or above high are High, at or above medium are Medium, and
// sequence findings at or above sequenceHigh are High. Defaults: 3, 2, 5.
func WithSeverityLimits(high, medium, sequenceHigh int) Option {
	return func(o *options) {
		o.engine.Limits = severity.Limits{High: high, Medium: medium, SequenceHigh: sequenceHigh}
	}
}

// Keys names the XES attributes the parser maps onto event fields.
// Zero-valued fields keep their defaults.
type Keys struct {
	Activity  string // default "concept:name"
	Timestamp string // default "time:timestamp"
	Actor     string // default "org:resource"
	Status    string // default "status"
	Gas       string // default "gas"
	GasLimit  string // default "gasLimit"
}

// WithKeys overrides the XES attribute keys the parser looks for.
func WithKeys(k Keys) Option {
	return func(o *options) {
		if k.Activity != "" {
			o.keys.Activity = k.Activity
		}
		if k.Timestamp != "" {
			o.keys.Timestamp = k.Timestamp
		}
		if k.Actor != "" {
			o.keys.Actor = k.Actor
		}
		if k.Status != "" {
			o.keys.Status = k.Status
		}
		if k.Gas != "" {
			o.keys.Gas = k.Gas
		}
		if k.GasLimit != "" {
			o.keys.GasLimit = k.GasLimit
		}
	}
}

// WithLongTraceIdentifier sets the trace attribute echoed in long-trace
// findings. Default: "blockNumber".
func WithLongTraceIdentifier(key string) Option {
	return func(o *options) { o.engine.LongTraceIdentifier = key }
}

// WithActorFallback controls how events without an actor attribute are
// grouped: when fromTrace is true, the trace attribute traceAttr (then the
// trace name) stands in before the per-trace synthetic actor.
// Default: true, "concept:name".
func WithActorFallback(fromTrace bool, traceAttr string) Option {
	return func(o *options) {
		o.engine.FallbackFromTrace = fromTrace
		if traceAttr != "" {
			o.engine.TraceActorAttr = traceAttr
		}
	}
}

func defaultOptions() options {
	return options{engine: engine.DefaultOptions(), keys: xes.DefaultKeys()}
}
