package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration at path, applies defaults and environment
// overrides, and validates the result. An empty path reads DefaultPath,
// which may be absent; an explicit path must exist.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies DOCWEAVER_* environment variables. Values that
// do not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("DOCWEAVER_POLICY"); val != "" {
		cfg.Convert.Policy = val
	}
	if val := os.Getenv("DOCWEAVER_FORMAT"); val != "" {
		cfg.Convert.Format = val
	}
	if val := os.Getenv("DOCWEAVER_MAX_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Convert.MaxDepth = i
		}
	}
	if val := os.Getenv("DOCWEAVER_SYSTEM_LINKS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Convert.SystemLinks = b
		}
	}
	if val := os.Getenv("DOCWEAVER_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("DOCWEAVER_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("DOCWEAVER_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
