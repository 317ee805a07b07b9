// Package config loads the settings of the nusa command from a YAML file.
//
// Example nusa.yaml:
//
//	max_depth: 2000
//	max_nesting: 500
//	strict_strings: true
//	debug: false
//	timeout: 10s
//	history_file: ~/.nusa_history
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/nusa/pkg/evaluator"
	"github.com/sandrolain/nusa/pkg/parser"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "nusa.yaml"

// DefaultHistoryFile is the REPL history file, relative to the home directory.
const DefaultHistoryFile = ".nusa_history"

// Config holds interpreter settings.
type Config struct {
	MaxDepth      int           `yaml:"max_depth"`
	MaxNesting    int           `yaml:"max_nesting"`
	StrictStrings bool          `yaml:"strict_strings"`
	Debug         bool          `yaml:"debug"`
	Timeout       time.Duration `yaml:"-"`
	HistoryFile   string        `yaml:"history_file"`

	Path string `yaml:"-"` // file the config was read from, if any
}

// fileConfig is the on-disk form. Durations are strings like "10s".
type fileConfig struct {
	MaxDepth      *int    `yaml:"max_depth"`
	MaxNesting    *int    `yaml:"max_nesting"`
	StrictStrings *bool   `yaml:"strict_strings"`
	Debug         *bool   `yaml:"debug"`
	Timeout       *string `yaml:"timeout"`
	HistoryFile   *string `yaml:"history_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MaxDepth:    evaluator.DefaultMaxDepth,
		MaxNesting:  parser.DefaultMaxDepth,
		HistoryFile: DefaultHistoryFile,
	}
}

// Load reads the config file at path. Settings absent from the file keep
// their default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// LoadOptional is like Load but returns the defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Decode reads a config document from r. An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	var raw fileConfig
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg := Default()
	if err := raw.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw *fileConfig) apply(cfg *Config) error {
	if raw.MaxDepth != nil {
		cfg.MaxDepth = *raw.MaxDepth
	}
	if raw.MaxNesting != nil {
		cfg.MaxNesting = *raw.MaxNesting
	}
	if raw.StrictStrings != nil {
		cfg.StrictStrings = *raw.StrictStrings
	}
	if raw.Debug != nil {
		cfg.Debug = *raw.Debug
	}
	if raw.Timeout != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*raw.Timeout))
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("timeout: must not be negative, got %s", d)
		}
		cfg.Timeout = d
	}
	if raw.HistoryFile != nil {
		cfg.HistoryFile = strings.TrimSpace(*raw.HistoryFile)
	}
	return nil
}

// CompileOptions returns the parser options for the config.
func (c *Config) CompileOptions() []parser.CompileOption {
	return []parser.CompileOption{
		parser.WithStrictStrings(c.StrictStrings),
		parser.WithMaxDepth(c.MaxNesting),
	}
}

// EvalOptions returns the evaluator options for the config, logging to logger.
func (c *Config) EvalOptions(logger *slog.Logger) []evaluator.EvalOption {
	opts := []evaluator.EvalOption{
		evaluator.WithMaxDepth(c.MaxDepth),
		evaluator.WithTimeout(c.Timeout),
		evaluator.WithDebug(c.Debug),
		evaluator.WithCompileOptions(c.CompileOptions()...),
	}
	if logger != nil {
		opts = append(opts, evaluator.WithLogger(logger))
	}
	return opts
}

// HistoryPath resolves HistoryFile against home when it is relative or
// starts with "~/". It returns "" when history is disabled.
func (c *Config) HistoryPath(home string) string {
	p := c.HistoryFile
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(home, p[2:])
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(home, p)
	}
}
