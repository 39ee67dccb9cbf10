package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/spanbuf/internal/engine/geometry"
	"github.com/dshills/spanbuf/internal/engine/marker"
	"github.com/dshills/spanbuf/internal/logging"
)

// Config holds all spanbuf settings.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Buffer   BufferConfig   `toml:"buffer"`
	Geometry GeometryConfig `toml:"geometry"`
	Script   ScriptConfig   `toml:"script"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// BufferConfig configures every marker.Buffer the program creates.
type BufferConfig struct {
	// MaxDepth bounds nested splices. Zero means unbounded.
	MaxDepth int `toml:"max_depth"`
	// MaxLength caps the buffer length in runes. Zero means unbounded.
	MaxLength int `toml:"max_length"`
	// ParagraphSeparators lists single-character strings.
	ParagraphSeparators []string `toml:"paragraph_separators"`
}

// GeometryConfig configures line geometry.
type GeometryConfig struct {
	TabWidth int `toml:"tab_width"`
}

// ScriptConfig configures the script runner.
type ScriptConfig struct {
	// Watch re-runs the script whenever its file changes.
	Watch bool `toml:"watch"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: "info"},
		Buffer:   BufferConfig{ParagraphSeparators: []string{"\n"}},
		Geometry: GeometryConfig{TabWidth: geometry.DefaultTabWidth},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := decode("<data>", data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Source: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return invalid("log.level", c.Log.Level, "want debug, info, warn or error")
	}
	if c.Buffer.MaxDepth < 0 {
		return invalid("buffer.max_depth", c.Buffer.MaxDepth, "negative")
	}
	if c.Buffer.MaxLength < 0 {
		return invalid("buffer.max_length", c.Buffer.MaxLength, "negative")
	}
	for _, sep := range c.Buffer.ParagraphSeparators {
		if utf8.RuneCountInString(sep) != 1 {
			return invalid("buffer.paragraph_separators", sep, "want a single character")
		}
	}
	if c.Geometry.TabWidth < 1 {
		return invalid("geometry.tab_width", c.Geometry.TabWidth, "must be at least 1")
	}
	return nil
}

// LogLevel returns the configured level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// BufferOptions translates the buffer settings into marker options.
func (c *Config) BufferOptions(log *logging.Logger) []marker.Option {
	opts := []marker.Option{
		marker.WithLogger(log),
		marker.WithMaxDepth(c.Buffer.MaxDepth),
	}
	if len(c.Buffer.ParagraphSeparators) > 0 {
		seps := make([]rune, 0, len(c.Buffer.ParagraphSeparators))
		for _, s := range c.Buffer.ParagraphSeparators {
			r, _ := utf8.DecodeRuneInString(s)
			seps = append(seps, r)
		}
		opts = append(opts, marker.WithParagraphSeparators(seps...))
	}
	if c.Buffer.MaxLength > 0 {
		opts = append(opts, marker.WithFilters(marker.MaxLength(c.Buffer.MaxLength)))
	}
	return opts
}

// GeometryOptions translates the geometry settings into geometry options.
func (c *Config) GeometryOptions() []geometry.Option {
	return []geometry.Option{geometry.WithTabWidth(c.Geometry.TabWidth)}
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel    = "SPANBUF_LOG_LEVEL"
	EnvMaxDepth    = "SPANBUF_MAX_DEPTH"
	EnvMaxLength   = "SPANBUF_MAX_LENGTH"
	EnvTabWidth    = "SPANBUF_TAB_WIDTH"
	EnvScriptWatch = "SPANBUF_WATCH"
)

// ApplyEnv overrides settings from environment variables looked up with
// lookup. Empty values are treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvMaxDepth, &c.Buffer.MaxDepth},
		{EnvMaxLength, &c.Buffer.MaxLength},
		{EnvTabWidth, &c.Geometry.TabWidth},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalid(e.name, v, "want an integer")
		}
		*e.dst = n
	}
	if v, ok := lookup(EnvScriptWatch); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalid(EnvScriptWatch, v, "want a boolean")
		}
		c.Script.Watch = b
	}
	return nil
}
