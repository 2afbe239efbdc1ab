package config

import "time"

// Default values for configuration fields.
const (
	DefaultPath = "docweaver.yaml"

	DefaultPolicy        = "error"
	DefaultFormat        = FormatMarkdown
	DefaultWatchDebounce = 200 * time.Millisecond
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ApplyDefaults fills every unset field of cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Convert.Policy == "" {
		cfg.Convert.Policy = DefaultPolicy
	}
	if cfg.Convert.Format == "" {
		cfg.Convert.Format = DefaultFormat
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
