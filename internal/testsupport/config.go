package testsupport

import (
	"path/filepath"
	"testing"

	"dupesweep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Server.URL = "https://photos.example"
	cfgVal.Server.APIKey = "test"
	cfgVal.Logging.Directory = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithServer overrides the server URL and API key on the test config.
func WithServer(url, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.URL = url
		b.cfg.Server.APIKey = apiKey
	}
}

// WithDryRun toggles dry-run mode on the test config.
func WithDryRun(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Deletion.DryRun = enabled
	}
}

// WithBatchSize sets the deletion batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Deletion.BatchSize = size
	}
}

// WithLogFormat sets the log output format on the test config.
func WithLogFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Format = format
	}
}
