// Package config provides configuration for texprobe.
//
// Settings come from an optional TOML file
// (~/.config/texprobe/config.toml) with environment variables taking
// precedence. A missing file is not an error; everything has a
// default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// EnvResolver overrides the resolver tool used to locate TeX files.
	EnvResolver = "TEXPROBE_RESOLVER"

	// EnvProbeTimeout bounds each external invocation made while
	// probing. Accepts duration strings like "30s" or "2m". Unset or
	// zero leaves invocations unbounded.
	EnvProbeTimeout = "TEXPROBE_PROBE_TIMEOUT"

	// DefaultResolver is the standard TeX file resolver.
	DefaultResolver = "kpsewhich"

	// MinProbeTimeout and MaxProbeTimeout clamp configured timeouts
	// to a sane range.
	MinProbeTimeout = 1 * time.Second
	MaxProbeTimeout = 10 * time.Minute
)

// Config holds user-configurable settings.
type Config struct {
	// Resolver is the tool invoked to resolve TeX file names to
	// absolute paths.
	Resolver string `toml:"resolver"`

	// ProbeTimeout bounds each external invocation, as a duration
	// string. Empty means unbounded, matching the historical behavior
	// of probing without a deadline.
	ProbeTimeout string `toml:"probe_timeout"`

	// MinVersions maps engine names to semver constraint strings
	// checked during functional probes, e.g. pdflatex = ">= 1.40".
	MinVersions map[string]string `toml:"min_versions"`

	// ExtraPackages lists LaTeX packages to probe in addition to the
	// built-in set.
	ExtraPackages []string `toml:"extra_packages"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Resolver: DefaultResolver,
	}
}

// Path returns the config file location, honoring the platform's user
// config directory convention.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(dir, "texprobe", "config.toml"), nil
}

// Load reads the config file, applies environment overrides, and
// returns the configuration. A missing file yields defaults; only a
// file that exists but cannot be parsed is an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, nil
	}
	return loadFromPath(path)
}

// loadFromPath reads config from a specific file path (for testing).
func loadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Resolver == "" {
		cfg.Resolver = DefaultResolver
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvResolver); v != "" {
		c.Resolver = v
	}
	if v := os.Getenv(EnvProbeTimeout); v != "" {
		c.ProbeTimeout = v
	}
}

// Timeout parses the configured probe timeout. Zero means unbounded.
// Invalid values fall back to unbounded with a warning; set values are
// clamped to [MinProbeTimeout, MaxProbeTimeout].
func (c *Config) Timeout() time.Duration {
	if c.ProbeTimeout == "" {
		return 0
	}

	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid probe timeout %q, probing without a deadline\n", c.ProbeTimeout)
		return 0
	}
	if d == 0 {
		return 0
	}
	if d < MinProbeTimeout {
		fmt.Fprintf(os.Stderr, "Warning: probe timeout too low (%v), using minimum %v\n", d, MinProbeTimeout)
		return MinProbeTimeout
	}
	if d > MaxProbeTimeout {
		fmt.Fprintf(os.Stderr, "Warning: probe timeout too high (%v), using maximum %v\n", d, MaxProbeTimeout)
		return MaxProbeTimeout
	}
	return d
}

// Save writes the configuration to the config file, creating the
// directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.saveToPath(path)
}

// saveToPath writes config to a specific file path (for testing).
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
