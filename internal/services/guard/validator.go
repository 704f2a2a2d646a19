package guard

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// minContentLength is the shortest text accepted as a plausible call
	// transcript.
	minContentLength = 100

	// llmSampleLimit bounds how much text is sent to the model for
	// borderline content.
	llmSampleLimit = 3000
)

const validationSystemPrompt = "You validate if text is a call center conversation. " +
	"Respond only with VALID or INVALID: <reason>"

const validationPromptTemplate = `Analyze this text and determine if it is a call center conversation.

Text:
%s

A VALID call center transcript MUST have ALL of these:
1. A dialogue between at least 2 parties (agent and customer)
2. Customer service context (support, sales, inquiry, complaint)
3. Back-and-forth conversation pattern

INVALID content includes:
- Single-person narratives or monologues
- Articles, essays, documentation
- Fiction or creative writing
- Podcasts or interviews (unless customer service)
- Non-customer-service chat logs

Respond with ONLY "VALID" or "INVALID: <reason>"
Be strict - reject if uncertain.`

// strongIndicators short-circuit the model check: text carrying explicit
// conversation labels is accepted without a network call.
var strongIndicators = []string{
	"agent:", "customer:", "representative:", "caller:",
	"**agent**", "**customer**", "**speaker",
}

// Completer is the slice of the chat client the validator needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Validator decides whether text is call-center conversation content.
type Validator struct {
	completer Completer
}

// NewValidator constructs a validator backed by the supplied completer.
func NewValidator(completer Completer) *Validator {
	return &Validator{completer: completer}
}

// Validate reports whether text looks like a call-center conversation, with a
// human-readable reason. A model outage counts as a rejection rather than an
// error: uncertain content is not allowed through.
func (v *Validator) Validate(ctx context.Context, text string) (bool, string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false, "content is empty"
	}
	if len(trimmed) < minContentLength {
		return false, fmt.Sprintf("content is too short to be a valid call transcript (minimum %d characters)", minContentLength)
	}

	lower := strings.ToLower(trimmed)
	for _, indicator := range strongIndicators {
		if strings.Contains(lower, indicator) {
			return true, "content validated as call center conversation"
		}
	}

	sample := truncate(trimmed, llmSampleLimit)
	response, err := v.completer.Complete(ctx, validationSystemPrompt, fmt.Sprintf(validationPromptTemplate, sample))
	if err != nil {
		return false, fmt.Sprintf("validation check failed: %v", err)
	}

	verdict := strings.ToUpper(strings.TrimSpace(response))
	if strings.HasPrefix(verdict, "VALID") {
		return true, "content validated as call center conversation"
	}
	reason := strings.TrimSpace(strings.TrimPrefix(verdict, "INVALID:"))
	reason = strings.TrimSpace(strings.TrimPrefix(reason, "INVALID"))
	if reason == "" {
		reason = "content does not appear to be a call center conversation"
	}
	return false, reason
}

// truncate cuts s at limit bytes without splitting a multibyte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
