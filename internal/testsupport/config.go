// Package testsupport provides shared fixtures for package tests: throwaway
// configurations, ledger seeding, and stub external binaries.
package testsupport

import (
	"path/filepath"
	"testing"

	"gainhound/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The post-hook is cleared so tests never launch stray processes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	data := t.TempDir()
	cfg.Paths.MusicDir = t.TempDir()
	cfg.Paths.DataDir = data
	cfg.Paths.Ledger = filepath.Join(data, "processed.list")
	cfg.Paths.Lock = filepath.Join(data, "gainhound.lock")
	cfg.Paths.LogDir = filepath.Join(data, "logs")
	cfg.History.Path = filepath.Join(data, "history.db")
	cfg.PostHook.Command = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDryRun toggles dry-run mode on the test config.
func WithDryRun(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Remediation.DryRun = enabled
	}
}

// WithMaxFiles caps the batch size on the test config.
func WithMaxFiles(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Remediation.MaxFiles = limit
	}
}

// WithGainThreshold overrides the selection threshold on the test config.
func WithGainThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Remediation.GainThreshold = threshold
	}
}
