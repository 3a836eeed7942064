// Package config provides configuration loading and validation for twofa.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"

	envLogLevel    = "TWOFA_LOG_LEVEL"
	envLogFormat   = "TWOFA_LOG_FORMAT"
	envOutput      = "TWOFA_OUTPUT"
	envPrimeRounds = "TWOFA_PRIME_ROUNDS"

	defaultPrimeRounds = 20
	defaultSRPTTL      = "5m"
	defaultFloodWait   = "30s"
	defaultMaxFailures = 3
)

// Config represents the twofa configuration.
type Config struct {
	Logging  LoggingSettings  `yaml:"logging"`
	Output   string           `yaml:"output"`
	SRP      SRPSettings      `yaml:"srp"`
	SelfTest SelfTestSettings `yaml:"selftest"`
}

// LoggingSettings contains logging configuration.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SRPSettings tunes the client-side checks.
type SRPSettings struct {
	// PrimeRounds is the Miller-Rabin round count of the safe-prime check.
	PrimeRounds int `yaml:"prime_rounds"`
	// CacheGroups remembers (g, p) pairs that passed validation.
	CacheGroups bool `yaml:"cache_groups"`
}

// SelfTestSettings configures the in-process account service used by
// the selftest command.
type SelfTestSettings struct {
	Hint        string `yaml:"hint"`
	SRPTTL      string `yaml:"srp_ttl"`
	MaxFailures int    `yaml:"max_failures"`
	FloodWait   string `yaml:"flood_wait"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingSettings{
			Level:  "info",
			Format: "human",
		},
		Output: "yaml",
		SRP: SRPSettings{
			PrimeRounds: defaultPrimeRounds,
			CacheGroups: true,
		},
		SelfTest: SelfTestSettings{
			Hint:        "selftest",
			SRPTTL:      defaultSRPTTL,
			MaxFailures: defaultMaxFailures,
			FloodWait:   defaultFloodWait,
		},
	}
}

// Load builds the configuration from defaults, the config file and the
// environment, in increasing order of precedence. An empty path selects the
// file in the user config directory, which may be absent. An explicit path
// must exist.
//
// Command-line flags are applied by the caller with ApplyFlags.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.loadFromFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultPath returns the location of the user's config file.
func DefaultPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// loadFromFile overlays the YAML file on c. Keys absent from the file keep
// their current values.
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - path is the user's config file
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFromEnv() error {
	if level := os.Getenv(envLogLevel); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv(envLogFormat); format != "" {
		c.Logging.Format = format
	}
	if output := os.Getenv(envOutput); output != "" {
		c.Output = output
	}
	if rounds := os.Getenv(envPrimeRounds); rounds != "" {
		n, err := strconv.Atoi(rounds)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envPrimeRounds, rounds, err)
		}
		c.SRP.PrimeRounds = n
	}
	return nil
}

// ApplyFlags applies command-line flag values to the configuration.
// Empty values leave the configuration unchanged.
func (c *Config) ApplyFlags(logLevel, output string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if output != "" {
		c.Output = output
	}
}

// GetSRPTTL parses and returns the lifetime of an emulated srp_id.
func (c *Config) GetSRPTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.SelfTest.SRPTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid srp_ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("srp_ttl must be positive")
	}
	return d, nil
}

// GetFloodWait parses and returns the lockout after too many failed checks.
func (c *Config) GetFloodWait() (time.Duration, error) {
	d, err := time.ParseDuration(c.SelfTest.FloodWait)
	if err != nil {
		return 0, fmt.Errorf("invalid flood_wait: %w", err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("flood_wait must be at least 1 second")
	}
	return d, nil
}

// Save writes the configuration as YAML to path, creating its directory.
// An empty path selects the file in the user config directory.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
