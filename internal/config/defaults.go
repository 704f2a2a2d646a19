package config

const (
	defaultOpenAIBaseURL          = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel            = "gpt-4o"
	defaultOpenAITimeoutSeconds   = 120
	defaultDeepgramBaseURL        = "https://api.deepgram.com/v1/listen"
	defaultDeepgramModel          = "nova-2"
	defaultDeepgramTimeoutSeconds = 300
	defaultMaxFileSizeMB          = 100
	defaultFFprobeBinary          = "ffprobe"
	defaultMaxRetries             = 2
	defaultPassingThreshold       = 70.0
	defaultEscalationThreshold    = 50.0
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

func defaultAudioExtensions() []string {
	return []string{".wav", ".mp3", ".m4a", ".flac", ".ogg", ".webm"}
}

func defaultTextExtensions() []string {
	return []string{".txt", ".json"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultOpenAIModel,
			TimeoutSeconds: defaultOpenAITimeoutSeconds,
		},
		Deepgram: Deepgram{
			BaseURL:        defaultDeepgramBaseURL,
			Model:          defaultDeepgramModel,
			TimeoutSeconds: defaultDeepgramTimeoutSeconds,
		},
		Intake: Intake{
			MaxFileSizeMB:   defaultMaxFileSizeMB,
			AudioExtensions: defaultAudioExtensions(),
			TextExtensions:  defaultTextExtensions(),
			FFprobeBinary:   defaultFFprobeBinary,
		},
		Workflow: Workflow{
			MaxRetries: defaultMaxRetries,
		},
		Scoring: Scoring{
			PassingThreshold:    defaultPassingThreshold,
			EscalationThreshold: defaultEscalationThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
