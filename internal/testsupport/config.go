package testsupport

import (
	"testing"

	"callgrade/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config with placeholder API keys. Options are
// applied on top of the repository defaults.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.OpenAI.APIKey = "test-openai-key"
	cfg.Deepgram.APIKey = "test-deepgram-key"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithMaxFileSizeMB overrides the intake size limit on the test config.
func WithMaxFileSizeMB(mb int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Intake.MaxFileSizeMB = mb
	}
}
