package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"callgrade/internal/config"
)

func TestLoadDefaultsUseEnvAPIKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("DEEPGRAM_API_KEY", "deepgram-key")
	t.Setenv("HOME", t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.OpenAI.APIKey != "openai-key" {
		t.Fatalf("expected OpenAI key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Deepgram.APIKey != "deepgram-key" {
		t.Fatalf("expected Deepgram key from env, got %q", cfg.Deepgram.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("unexpected default model: %q", cfg.OpenAI.Model)
	}
	if cfg.Workflow.MaxRetries != 2 {
		t.Fatalf("unexpected default max retries: %d", cfg.Workflow.MaxRetries)
	}
	if cfg.Intake.MaxFileSizeMB != 100 {
		t.Fatalf("unexpected default max file size: %d", cfg.Intake.MaxFileSizeMB)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsTOMLAndNormalizesExtensions(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEEPGRAM_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[openai]
api_key = "file-openai"
model = " gpt-4o-mini "

[deepgram]
api_key = "file-deepgram"

[intake]
max_file_size_mb = 25
audio_extensions = ["WAV", ".Mp3"]
text_extensions = ["txt"]

[workflow]
max_retries = 4
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("expected trimmed model, got %q", cfg.OpenAI.Model)
	}
	if got := cfg.Intake.AudioExtensions; len(got) != 2 || got[0] != ".wav" || got[1] != ".mp3" {
		t.Fatalf("unexpected audio extensions: %v", got)
	}
	if got := cfg.Intake.TextExtensions; len(got) != 1 || got[0] != ".txt" {
		t.Fatalf("unexpected text extensions: %v", got)
	}
	if cfg.Workflow.MaxRetries != 4 {
		t.Fatalf("unexpected max retries: %d", cfg.Workflow.MaxRetries)
	}
}

func TestLoadRejectsMissingKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEEPGRAM_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing API keys")
	}
	if !strings.Contains(err.Error(), "openai.api_key") {
		t.Fatalf("expected openai.api_key error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero file size", func(c *config.Config) { c.Intake.MaxFileSizeMB = 0 }, "max_file_size_mb"},
		{"negative retries", func(c *config.Config) { c.Workflow.MaxRetries = -1 }, "max_retries"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad threshold", func(c *config.Config) { c.Scoring.PassingThreshold = 150 }, "passing_threshold"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.OpenAI.APIKey = "k"
			cfg.Deepgram.APIKey = "k"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected second WriteSample to fail")
	}
}
