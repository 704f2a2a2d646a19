package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateDeepgram(); err != nil {
		return err
	}
	if err := c.validateIntake(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/callgrade/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'callgrade config init')", defaultPath)
	}
	if c.OpenAI.TimeoutSeconds < 0 {
		return errors.New("openai.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateDeepgram() error {
	if c.Deepgram.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/callgrade/config.toml"
		}
		return fmt.Errorf("deepgram.api_key is required. Set DEEPGRAM_API_KEY env var or edit %s (create with 'callgrade config init')", defaultPath)
	}
	if c.Deepgram.TimeoutSeconds < 0 {
		return errors.New("deepgram.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateIntake() error {
	if c.Intake.MaxFileSizeMB <= 0 {
		return errors.New("intake.max_file_size_mb must be positive")
	}
	if len(c.Intake.AudioExtensions) == 0 && len(c.Intake.TextExtensions) == 0 {
		return errors.New("intake must allow at least one file extension")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.MaxRetries < 0 {
		return errors.New("workflow.max_retries must not be negative")
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.PassingThreshold < 0 || c.Scoring.PassingThreshold > 100 {
		return errors.New("scoring.passing_threshold must be between 0 and 100")
	}
	if c.Scoring.EscalationThreshold < 0 || c.Scoring.EscalationThreshold > 100 {
		return errors.New("scoring.escalation_threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
