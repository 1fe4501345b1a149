// Package config loads tracelens configuration from a YAML file with
// per-key defaults and TRACELENS_-prefixed environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/crimson-sun/tracelens/internal/engine"
	"github.com/crimson-sun/tracelens/internal/engine/severity"
	"github.com/crimson-sun/tracelens/internal/xes"
)

// Config holds all tracelens configuration.
type Config struct {
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	TimeThresholdSeconds int `mapstructure:"time_threshold_seconds" yaml:"time_threshold_seconds"`
	MaxSequenceLength    int `mapstructure:"max_sequence_length" yaml:"max_sequence_length"`
	Percentile           int `mapstructure:"percentile" yaml:"percentile"`

	MaxSequenceSuggestions  int `mapstructure:"max_sequence_suggestions" yaml:"max_sequence_suggestions"`
	MaxLongTraceSuggestions int `mapstructure:"max_long_trace_suggestions" yaml:"max_long_trace_suggestions"`
	MaxOutOfGasSuggestions  int `mapstructure:"max_out_of_gas_suggestions" yaml:"max_out_of_gas_suggestions"`

	TimestampKey string `mapstructure:"timestamp_key" yaml:"timestamp_key"`
	ActivityKey  string `mapstructure:"activity_key" yaml:"activity_key"`
	ActorKey     string `mapstructure:"actor_key" yaml:"actor_key"`
	StatusKey    string `mapstructure:"status_key" yaml:"status_key"`
	GasKey       string `mapstructure:"gas_key" yaml:"gas_key"`
	GasLimitKey  string `mapstructure:"gas_limit_key" yaml:"gas_limit_key"`

	LongTraceIdentifier    string `mapstructure:"long_trace_identifier" yaml:"long_trace_identifier"`
	FallbackActorFromTrace bool   `mapstructure:"fallback_actor_from_trace" yaml:"fallback_actor_from_trace"`
	TraceActorAttr         string `mapstructure:"trace_actor_attr" yaml:"trace_actor_attr"`

	Features FeaturesConfig `mapstructure:"features" yaml:"features"`
	Severity SeverityConfig `mapstructure:"severity" yaml:"severity"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

// FeaturesConfig toggles individual detectors.
type FeaturesConfig struct {
	Merge             bool `mapstructure:"merge" yaml:"merge"`
	Redundancy        bool `mapstructure:"redundancy" yaml:"redundancy"`
	Sequence          bool `mapstructure:"sequence" yaml:"sequence"`
	OutOfGasException bool `mapstructure:"out_of_gas_exception" yaml:"out_of_gas_exception"`
	TraceLength       bool `mapstructure:"trace_length" yaml:"trace_length"`
}

// SeverityConfig holds the count thresholds separating severity tiers.
type SeverityConfig struct {
	High         int `mapstructure:"high" yaml:"high"`
	Medium       int `mapstructure:"medium" yaml:"medium"`
	SequenceHigh int `mapstructure:"sequence_high" yaml:"sequence_high"`
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format"` // "text" or "json"
	Path       string `mapstructure:"path" yaml:"path"`     // "" means stdout
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_file", "./pid0.xes")
	v.SetDefault("log_level", "info")
	v.SetDefault("time_threshold_seconds", 60)
	v.SetDefault("max_sequence_length", 5)
	v.SetDefault("percentile", 99)
	v.SetDefault("max_sequence_suggestions", 10)
	v.SetDefault("max_long_trace_suggestions", 5)
	v.SetDefault("max_out_of_gas_suggestions", 10)
	v.SetDefault("timestamp_key", "time:timestamp")
	v.SetDefault("activity_key", "concept:name")
	v.SetDefault("actor_key", "org:resource")
	v.SetDefault("status_key", "status")
	v.SetDefault("gas_key", "gas")
	v.SetDefault("gas_limit_key", "gasLimit")
	v.SetDefault("long_trace_identifier", "blockNumber")
	v.SetDefault("fallback_actor_from_trace", true)
	v.SetDefault("trace_actor_attr", "concept:name")
	v.SetDefault("features.merge", true)
	v.SetDefault("features.redundancy", true)
	v.SetDefault("features.sequence", true)
	v.SetDefault("features.out_of_gas_exception", true)
	v.SetDefault("features.trace_length", true)
	v.SetDefault("severity.high", 3)
	v.SetDefault("severity.medium", 2)
	v.SetDefault("severity.sequence_high", 5)
	v.SetDefault("output.format", "text")
	v.SetDefault("output.path", "")
	v.SetDefault("output.webhook_url", "")
}

// Load reads configuration from the given YAML file, falling back to
// defaults for missing keys. An empty path means defaults plus environment
// only; a named file that cannot be read is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("TRACELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every constrained key and names the offender on failure.
func (c Config) Validate() error {
	if c.TimeThresholdSeconds <= 0 {
		return fmt.Errorf("config: time_threshold_seconds must be positive, got %d", c.TimeThresholdSeconds)
	}
	if c.MaxSequenceLength < 3 {
		return fmt.Errorf("config: max_sequence_length must be at least 3, got %d", c.MaxSequenceLength)
	}
	if c.Percentile < 0 || c.Percentile > 100 {
		return fmt.Errorf("config: percentile must be in [0,100], got %d", c.Percentile)
	}
	if c.MaxSequenceSuggestions < 0 || c.MaxLongTraceSuggestions < 0 || c.MaxOutOfGasSuggestions < 0 {
		return fmt.Errorf("config: suggestion caps must not be negative")
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: output.format must be %q or %q, got %q", "text", "json", c.Output.Format)
	}
	return nil
}

// EngineOptions converts the configuration into the engine's option value.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		TimeThreshold:           time.Duration(c.TimeThresholdSeconds) * time.Second,
		MaxSequenceLength:       c.MaxSequenceLength,
		Percentile:              c.Percentile,
		MaxSequenceSuggestions:  c.MaxSequenceSuggestions,
		MaxLongTraceSuggestions: c.MaxLongTraceSuggestions,
		MaxOutOfGasSuggestions:  c.MaxOutOfGasSuggestions,
		Features: engine.Features{
			Merge:       c.Features.Merge,
			Redundancy:  c.Features.Redundancy,
			Sequence:    c.Features.Sequence,
			OutOfGas:    c.Features.OutOfGasException,
			TraceLength: c.Features.TraceLength,
		},
		Limits: severity.Limits{
			High:         c.Severity.High,
			Medium:       c.Severity.Medium,
			SequenceHigh: c.Severity.SequenceHigh,
		},
		FallbackFromTrace:   c.FallbackActorFromTrace,
		TraceActorAttr:      c.TraceActorAttr,
		LongTraceIdentifier: c.LongTraceIdentifier,
	}
}

// XESKeys converts the configured attribute keys for the parser.
func (c Config) XESKeys() xes.Keys {
	return xes.Keys{
		Activity:  c.ActivityKey,
		Timestamp: c.TimestampKey,
		Actor:     c.ActorKey,
		Status:    c.StatusKey,
		Gas:       c.GasKey,
		GasLimit:  c.GasLimitKey,
	}
}
