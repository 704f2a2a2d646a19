// Package llm wraps an OpenAI-compatible chat completion API behind a small
// client used by the summarization, scoring, content-guard, and role-labeling
// collaborators.
//
// The client owns the transport-level resilience policy: transient provider
// failures (rate limiting, timeouts, 5xx) are retried with exponential backoff
// honoring Retry-After, bounded at three attempts. That policy is internal to
// each collaborator call and independent of the workflow-level retry loop,
// which restarts whole pipeline stages.
//
// Structured calls use CompleteJSON, which forces a JSON response format and
// decodes tolerant of code fences and prose-wrapped payloads via
// DecodeLLMJSON. Free-form calls (the content guard's VALID/INVALID probe) use
// Complete.
package llm
