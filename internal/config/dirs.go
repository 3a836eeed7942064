package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "twofa"

// UserConfigDir returns the OS-specific user configuration directory for twofa.
// On Linux: ~/.config/twofa
// On macOS: ~/Library/Application Support/twofa
// On Windows: %APPDATA%\twofa
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, appName)
	return appConfigDir, nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// It sets the directory permissions to 0700 (owner read/write/execute only).
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
