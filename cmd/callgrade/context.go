package main

import (
	"log/slog"
	"strings"
	"sync"

	"callgrade/internal/agents"
	"callgrade/internal/config"
	"callgrade/internal/logging"
	"callgrade/internal/services/deepgram"
	"callgrade/internal/services/guard"
	"callgrade/internal/services/llm"
	"callgrade/internal/services/roles"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) buildLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

func (c *commandContext) llmClient() (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return llm.NewClient(llm.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
	}), nil
}

// buildCollaborators wires the external services behind the pipeline's
// collaborator interfaces. Every language-model task shares one client.
func (c *commandContext) buildCollaborators() (agents.Collaborators, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return agents.Collaborators{}, err
	}
	llmClient, err := c.llmClient()
	if err != nil {
		return agents.Collaborators{}, err
	}
	dgClient := deepgram.NewClient(deepgram.Config{
		APIKey:         cfg.Deepgram.APIKey,
		BaseURL:        cfg.Deepgram.BaseURL,
		Model:          cfg.Deepgram.Model,
		TimeoutSeconds: cfg.Deepgram.TimeoutSeconds,
	})

	return agents.Collaborators{
		Prober:      agents.FFprobeProber{Binary: cfg.Intake.FFprobeBinary},
		Validator:   guard.NewValidator(llmClient),
		Transcriber: agents.DeepgramTranscriber{Client: dgClient},
		Classifier:  roles.NewClassifier(llmClient),
		Summarizer:  agents.NewLLMSummarizer(llmClient),
		Scorer:      agents.NewLLMScorer(llmClient),
	}, nil
}

func (c *commandContext) pipelineConfig() agents.Config {
	cfg := c.config
	return agents.Config{
		MaxFileSizeMB:       int64(cfg.Intake.MaxFileSizeMB),
		AudioExtensions:     cfg.Intake.AudioExtensions,
		TextExtensions:      cfg.Intake.TextExtensions,
		EscalationThreshold: cfg.Scoring.EscalationThreshold,
	}
}
