package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"callgrade/internal/grading"
	"callgrade/internal/services/llm"
)

const summarizerSystemPrompt = `You are a call center quality assurance analyst. Your job is to
analyze call transcripts and provide structured summaries that capture the key
information from customer service interactions. Respond with JSON only.`

const summarizerPromptTemplate = `Analyze this call center transcript and provide a structured summary.

Transcript:
%s

Respond with a JSON object with exactly these fields:
- "brief_summary": 2-3 sentence overview
- "customer_issue": the customer's primary issue or reason for calling
- "resolution_provided": how the issue was addressed or resolved
- "customer_sentiment": one of "positive", "neutral", "negative", "mixed"
- "call_category": the call type (support, complaint, inquiry, sales, etc.)
- "key_topics": list of main topics discussed
- "action_items": list of follow-up actions needed (empty list if none)`

// JSONCompleter is the slice of the chat client the LLM-backed collaborators
// need.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMSummarizer implements Summarizer on a chat completion client.
type LLMSummarizer struct {
	completer JSONCompleter
}

// NewLLMSummarizer constructs a model-backed summarizer.
func NewLLMSummarizer(completer JSONCompleter) *LLMSummarizer {
	return &LLMSummarizer{completer: completer}
}

// Summarize asks the model for a structured summary of the transcript.
func (s *LLMSummarizer) Summarize(ctx context.Context, transcript string) (*grading.CallSummary, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("summarize: empty transcript")
	}
	response, err := s.completer.CompleteJSON(ctx, summarizerSystemPrompt,
		fmt.Sprintf(summarizerPromptTemplate, transcript))
	if err != nil {
		return nil, err
	}
	var summary grading.CallSummary
	if err := llm.DecodeLLMJSON(response, &summary); err != nil {
		return nil, fmt.Errorf("summarize: parse payload: %w", err)
	}
	if strings.TrimSpace(summary.BriefSummary) == "" {
		return nil, errors.New("summarize: response missing brief_summary")
	}
	return &summary, nil
}
