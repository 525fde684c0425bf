package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"

	"github.com/dshills/textmark/anchor"
	"github.com/dshills/textmark/highlighter"
	"github.com/dshills/textmark/logging"
	"github.com/dshills/textmark/observer"
)

// EnvPrefix is the prefix of every recognized environment variable.
const EnvPrefix = "TEXTMARK_"

// Duration wraps time.Duration so configuration values can be written
// in Go duration syntax ("150ms", "2s") in TOML, JSON, and the
// environment alike.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config carries the engine tunables an embedding host may override.
// The zero value is not useful; start from DefaultConfig or LoadFile.
type Config struct {
	// ContextLength is the grapheme budget for quote context windows.
	ContextLength int `toml:"context_length"`

	// MaxFuzzyErrors bounds fuzzy matching. Negative derives the
	// budget from the quote length; zero disables fuzzy matching.
	MaxFuzzyErrors int `toml:"max_fuzzy_errors"`

	// DebounceInterval is how long the document must stay quiet
	// before changed content is re-anchored.
	DebounceInterval Duration `toml:"debounce_interval"`

	// MarkerClassName is the class applied to highlight markers.
	MarkerClassName string `toml:"marker_class_name"`

	// DefaultColor is used for highlights that carry no color.
	DefaultColor string `toml:"default_color"`

	// LogLevel is the minimum level emitted: debug, info, warn, or
	// error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the tunables the engine uses out of the box.
func DefaultConfig() Config {
	opts := anchor.DefaultOptions()
	return Config{
		ContextLength:    opts.ContextLength,
		MaxFuzzyErrors:   opts.MaxFuzzyErrors,
		DebounceInterval: Duration(observer.DefaultDebounce),
		MarkerClassName:  highlighter.DefaultClassName,
		DefaultColor:     highlighter.DefaultColor,
		LogLevel:         "info",
	}
}

// Load composes the full precedence chain: defaults, the TOML file at
// path, then environment overrides, validated at the end.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads TOML configuration from path over the defaults. A
// missing file is not an error: the defaults come back unchanged.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays TEXTMARK_-prefixed environment variables onto c.
// Unset variables leave their fields alone; set ones must parse.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvPrefix + "CONTEXT_LENGTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Field: EnvPrefix + "CONTEXT_LENGTH", Value: v, Reason: "not an integer"}
		}
		c.ContextLength = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MAX_FUZZY_ERRORS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Field: EnvPrefix + "MAX_FUZZY_ERRORS", Value: v, Reason: "not an integer"}
		}
		c.MaxFuzzyErrors = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DEBOUNCE_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ValidationError{Field: EnvPrefix + "DEBOUNCE_INTERVAL", Value: v, Reason: "not a duration"}
		}
		c.DebounceInterval = Duration(d)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MARKER_CLASS_NAME"); ok {
		c.MarkerClassName = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DEFAULT_COLOR"); ok {
		c.DefaultColor = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// ApplyJSON overlays settings from a JSON fragment, the form an
// embedding host typically has at hand. Unknown keys are ignored;
// present keys must carry the right type.
func (c *Config) ApplyJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if !gjson.ValidBytes(data) {
		return &ValidationError{Field: "json", Value: string(data), Reason: "not valid JSON"}
	}
	if v := gjson.GetBytes(data, "contextLength"); v.Exists() {
		if v.Type != gjson.Number {
			return &ValidationError{Field: "contextLength", Value: v.Value(), Reason: "not an integer"}
		}
		c.ContextLength = int(v.Int())
	}
	if v := gjson.GetBytes(data, "maxFuzzyErrors"); v.Exists() {
		if v.Type != gjson.Number {
			return &ValidationError{Field: "maxFuzzyErrors", Value: v.Value(), Reason: "not an integer"}
		}
		c.MaxFuzzyErrors = int(v.Int())
	}
	if v := gjson.GetBytes(data, "debounceInterval"); v.Exists() {
		if v.Type != gjson.String {
			return &ValidationError{Field: "debounceInterval", Value: v.Value(), Reason: "not a duration string"}
		}
		d, err := time.ParseDuration(v.String())
		if err != nil {
			return &ValidationError{Field: "debounceInterval", Value: v.String(), Reason: "not a duration"}
		}
		c.DebounceInterval = Duration(d)
	}
	if v := gjson.GetBytes(data, "markerClassName"); v.Exists() {
		if v.Type != gjson.String {
			return &ValidationError{Field: "markerClassName", Value: v.Value(), Reason: "not a string"}
		}
		c.MarkerClassName = v.String()
	}
	if v := gjson.GetBytes(data, "defaultColor"); v.Exists() {
		if v.Type != gjson.String {
			return &ValidationError{Field: "defaultColor", Value: v.Value(), Reason: "not a string"}
		}
		c.DefaultColor = v.String()
	}
	if v := gjson.GetBytes(data, "logLevel"); v.Exists() {
		if v.Type != gjson.String {
			return &ValidationError{Field: "logLevel", Value: v.Value(), Reason: "not a string"}
		}
		c.LogLevel = v.String()
	}
	return nil
}

// Validate checks that c can drive the engine. The first problem
// found comes back as a *ValidationError satisfying
// errors.Is(err, ErrInvalid).
func (c *Config) Validate() error {
	if c.ContextLength < 1 {
		return &ValidationError{Field: "context_length", Value: c.ContextLength, Reason: "must be at least 1"}
	}
	if c.DebounceInterval <= 0 {
		return &ValidationError{Field: "debounce_interval", Value: c.DebounceInterval.Std(), Reason: "must be positive"}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "log_level", Value: c.LogLevel, Reason: "must be debug, info, warn, or error"}
	}
	return nil
}

// AnchorOptions translates the tunables into anchoring options.
func (c *Config) AnchorOptions() anchor.Options {
	opts := anchor.DefaultOptions()
	opts.ContextLength = c.ContextLength
	opts.MaxFuzzyErrors = c.MaxFuzzyErrors
	return opts
}

// Logging translates the configured log level into a logger
// configuration.
func (c *Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLogLevel(c.LogLevel)
	return lc
}
