package grading

import "strings"

// CallSummary is the structured summary produced for a call.
type CallSummary struct {
	BriefSummary       string   `json:"brief_summary"`
	CustomerIssue      string   `json:"customer_issue"`
	ResolutionProvided string   `json:"resolution_provided"`
	CustomerSentiment  string   `json:"customer_sentiment"`
	CallCategory       string   `json:"call_category"`
	KeyTopics          []string `json:"key_topics"`
	ActionItems        []string `json:"action_items"`
}

// ResolutionStatus classifies how the call left the customer issue.
type ResolutionStatus string

const (
	ResolutionResolved  ResolutionStatus = "resolved"
	ResolutionEscalated ResolutionStatus = "escalated"
	ResolutionPending   ResolutionStatus = "pending"
)

var resolvedKeywords = []string{"resolved", "fixed", "completed", "done"}

var escalatedKeywords = []string{"escalated", "transferred", "supervisor"}

// ResolveStatus derives the resolution status from the free-text resolution
// description via case-insensitive substring matching. Resolved keywords win
// over escalated keywords; no match means pending.
func ResolveStatus(resolutionText string) ResolutionStatus {
	text := strings.ToLower(resolutionText)
	for _, kw := range resolvedKeywords {
		if strings.Contains(text, kw) {
			return ResolutionResolved
		}
	}
	for _, kw := range escalatedKeywords {
		if strings.Contains(text, kw) {
			return ResolutionEscalated
		}
	}
	return ResolutionPending
}
