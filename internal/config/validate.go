package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate performs comprehensive validation on the configuration.
func Validate(cfg *Config) error {
	if err := validateLogging(cfg); err != nil {
		return fmt.Errorf("logging validation failed: %w", err)
	}

	if err := validateOutput(cfg); err != nil {
		return fmt.Errorf("output validation failed: %w", err)
	}

	if err := validateSRP(cfg); err != nil {
		return fmt.Errorf("srp validation failed: %w", err)
	}

	if err := validateSelfTest(cfg); err != nil {
		return fmt.Errorf("selftest validation failed: %w", err)
	}

	return nil
}

func validateLogging(cfg *Config) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %s", strings.Join(validLevels, ", "))
	}

	validFormats := []string{"json", "human"}
	if !slices.Contains(validFormats, cfg.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %s", strings.Join(validFormats, ", "))
	}

	return nil
}

func validateOutput(cfg *Config) error {
	validOutputs := []string{"yaml", "json"}
	if !slices.Contains(validOutputs, cfg.Output) {
		return fmt.Errorf("output must be one of: %s", strings.Join(validOutputs, ", "))
	}
	return nil
}

func validateSRP(cfg *Config) error {
	if cfg.SRP.PrimeRounds < 1 {
		return fmt.Errorf("srp.prime_rounds must be at least 1, got %d", cfg.SRP.PrimeRounds)
	}
	return nil
}

func validateSelfTest(cfg *Config) error {
	if _, err := cfg.GetSRPTTL(); err != nil {
		return err
	}

	if _, err := cfg.GetFloodWait(); err != nil {
		return err
	}

	if cfg.SelfTest.MaxFailures < 1 {
		return fmt.Errorf("selftest.max_failures must be at least 1")
	}

	return nil
}
