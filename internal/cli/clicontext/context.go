// Package clicontext provides global CLI context and state management.
package clicontext

import "sync"

// Global holds the global CLI context, including flags that affect all commands.
type Global struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// Output overrides the configured output format.
	Output string
	// LogLevel overrides the configured log level.
	LogLevel string
}

var (
	globalContext = &Global{}
	mu            sync.RWMutex
)

// Set updates the global CLI context.
func Set(ctx *Global) {
	mu.Lock()
	defer mu.Unlock()
	globalContext = ctx
}

// Get returns a copy of the current global CLI context.
func Get() Global {
	mu.RLock()
	defer mu.RUnlock()
	return *globalContext
}

// Reset clears all global flags.
func Reset() {
	Set(&Global{})
}

// SetConfigPath sets the config file override.
func SetConfigPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	globalContext.ConfigPath = path
}

// SetOutput sets the output format override.
func SetOutput(format string) {
	mu.Lock()
	defer mu.Unlock()
	globalContext.Output = format
}

// SetLogLevel sets the log level override.
func SetLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	globalContext.LogLevel = level
}
