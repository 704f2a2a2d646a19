package config

import (
	"os"
	"strings"
)

// normalize applies environment fallbacks and canonicalizes values after the
// TOML file has been decoded.
func (c *Config) normalize() {
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Deepgram.APIKey == "" {
		c.Deepgram.APIKey = os.Getenv("DEEPGRAM_API_KEY")
	}

	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	c.Deepgram.APIKey = strings.TrimSpace(c.Deepgram.APIKey)
	c.Deepgram.BaseURL = strings.TrimSpace(c.Deepgram.BaseURL)
	c.Deepgram.Model = strings.TrimSpace(c.Deepgram.Model)
	c.Intake.FFprobeBinary = strings.TrimSpace(c.Intake.FFprobeBinary)

	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	if c.Deepgram.BaseURL == "" {
		c.Deepgram.BaseURL = defaultDeepgramBaseURL
	}
	if c.Deepgram.Model == "" {
		c.Deepgram.Model = defaultDeepgramModel
	}
	if c.Intake.FFprobeBinary == "" {
		c.Intake.FFprobeBinary = defaultFFprobeBinary
	}
	if len(c.Intake.AudioExtensions) == 0 {
		c.Intake.AudioExtensions = defaultAudioExtensions()
	}
	if len(c.Intake.TextExtensions) == 0 {
		c.Intake.TextExtensions = defaultTextExtensions()
	}

	c.Intake.AudioExtensions = normalizeExtensions(c.Intake.AudioExtensions)
	c.Intake.TextExtensions = normalizeExtensions(c.Intake.TextExtensions)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
