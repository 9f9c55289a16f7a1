package testsupport

import (
	"path/filepath"
	"testing"

	"hanru/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.InboxDir = filepath.Join(base, "inbox")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Backend.URL = "http://127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBackendURL points the test config at a (usually httptest) server.
func WithBackendURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Backend.URL = url
	}
}

// WithBatchSize overrides the translation batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Translation.BatchSize = size
	}
}
