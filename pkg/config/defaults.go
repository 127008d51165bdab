package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration.
const (
	DefaultFormat         = "common"
	DefaultRunTime        = "23:45"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvLog       = "TAILGATE_LOG"
	EnvStateFile = "TAILGATE_STATE_FILE"
)

// DefaultStateFile returns the default state file location under the
// user's home directory.
func DefaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory; fall back to the working directory.
		return ".tailgate-state.json"
	}
	return filepath.Join(home, ".tailgate", "state.json")
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:     DefaultFormat,
		RLARunTime: DefaultRunTime,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if log := os.Getenv(EnvLog); log != "" {
		c.Log = log
	}
	if stateFile := os.Getenv(EnvStateFile); stateFile != "" {
		c.StateFile = stateFile
	}
}
