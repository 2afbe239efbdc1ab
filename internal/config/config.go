// Package config loads the docweaver CLI configuration from YAML with
// environment variable overrides.
package config

import (
	"time"

	"github.com/grahms/docweaver"
)

// Config is the root of docweaver.yaml.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig controls how documentation files are converted.
type ConvertConfig struct {
	// Policy is what happens to unknown elements: "error", "warn" or "accept".
	Policy string `yaml:"policy"`

	// Format is the output format: "markdown" or "html".
	Format string `yaml:"format"`

	// MaxDepth bounds element nesting. Zero selects the default, a negative
	// value disables the limit.
	MaxDepth int `yaml:"max_depth"`

	// SystemLinks links System namespace references to the MSDN library.
	SystemLinks bool `yaml:"system_links"`

	// PreserveWhitespace keeps whitespace-only text nodes.
	PreserveWhitespace bool `yaml:"preserve_whitespace"`
}

// WatchConfig controls --watch.
type WatchConfig struct {
	// Debounce is the quiet period after a change before converting again.
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig controls diagnostic output on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UnknownPolicy returns the parsed unknown-element policy. It falls back to
// UnknownError for a value Validate would reject.
func (c ConvertConfig) UnknownPolicy() docweaver.UnknownTagPolicy {
	p, err := docweaver.ParseUnknownTagPolicy(c.Policy)
	if err != nil {
		return docweaver.UnknownError
	}
	return p
}

// ConverterOptions returns the options that configure a docweaver.Converter
// as described by c.
func (c ConvertConfig) ConverterOptions() []func(*docweaver.Converter) {
	opts := []func(*docweaver.Converter){
		docweaver.WithUnknownPolicy(c.UnknownPolicy()),
		docweaver.WithSystemLinks(c.SystemLinks),
	}
	switch {
	case c.MaxDepth < 0:
		opts = append(opts, docweaver.WithMaxDepth(0))
	case c.MaxDepth > 0:
		opts = append(opts, docweaver.WithMaxDepth(c.MaxDepth))
	}
	if c.PreserveWhitespace {
		opts = append(opts, docweaver.WithParseOptions(docweaver.WithPreserveWhitespace()))
	}
	return opts
}
