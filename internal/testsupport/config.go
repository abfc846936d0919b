package testsupport

import (
	"path/filepath"
	"testing"

	"bindery/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ImageRoot = filepath.Join(base, "batch-image-sets")
	cfg.Paths.ResultsDir = filepath.Join(base, "batch-results")
	cfg.Paths.WorkbookDir = filepath.Join(base, "workbooks")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithConflictPolicy overrides the duplicate-row policy on the test config.
func WithConflictPolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Processing.ConflictPolicy = policy
	}
}

// WithConditions overrides the approved condition enumeration.
func WithConditions(ids ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Listing.ApprovedConditionIDs = ids
	}
}
