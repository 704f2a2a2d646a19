package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"callgrade/internal/grading"
	"callgrade/internal/services/llm"
)

const scorerSystemPrompt = `You are an expert call center quality assurance evaluator with years
of experience in assessing customer service interactions. You provide fair, detailed,
and constructive evaluations based on industry best practices. Respond with JSON only.`

const scorerPromptTemplate = `Evaluate this call center transcript using a comprehensive quality rubric.

Transcript:
%s

Call Summary:
%s

Score each criterion from 1-5:
- 5 (excellent): Exceeds expectations, exemplary performance
- 4 (good): Meets all expectations with minor areas for polish
- 3 (satisfactory): Meets basic expectations, room for improvement
- 2 (needs_improvement): Below expectations, significant gaps
- 1 (poor): Fails to meet minimum standards

Every scored item must be a JSON object with fields "score" (1-5), "level"
(excellent, good, satisfactory, needs_improvement, poor), "evidence" (a quote
or observation from the transcript), and "feedback" (constructive improvement
advice).

Respond with a JSON object with these categories and items:

"greeting": proper_greeting (company greeting, self-introduction),
verified_customer (identity verification), set_expectations (explained what
they can help with).

"communication": clarity (clear speech, appropriate pace), tone (professional,
friendly), active_listening (acknowledged customer, clarifying questions),
empathy (understanding of customer feelings), avoided_jargon
(customer-friendly language).

"resolution": understanding (correctly identified the issue), knowledge
(product/service knowledge), solution_quality (appropriate, effective
solution), first_call_resolution (resolved without callback), proactive_help
(offered additional assistance).

"professionalism": courtesy (polite demeanor), patience (patient with
difficult situations), ownership (took responsibility, avoided blame),
confidentiality (handled sensitive info appropriately).

"closing": summarized (recapped discussion), next_steps (explained follow-up),
satisfaction_check (asked if anything else is needed), proper_closing
(appropriate closing statement).

Also include:
- "strengths": top 3 areas of strength
- "areas_for_improvement": top 3 areas needing improvement
- "compliance_issues": any compliance violations noted (empty list if none)
- "escalation_recommended": true if serious issues were found`

// LLMScorer implements Scorer on a chat completion client. Aggregate fields
// in the response are ignored; callers recompute them from the item scores.
type LLMScorer struct {
	completer JSONCompleter
}

// NewLLMScorer constructs a model-backed rubric scorer.
func NewLLMScorer(completer JSONCompleter) *LLMScorer {
	return &LLMScorer{completer: completer}
}

// Score asks the model to fill in the rubric for the transcript.
func (s *LLMScorer) Score(ctx context.Context, transcript, summary string) (*grading.QualityScores, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("score: empty transcript")
	}
	if strings.TrimSpace(summary) == "" {
		summary = "Not available"
	}
	response, err := s.completer.CompleteJSON(ctx, scorerSystemPrompt,
		fmt.Sprintf(scorerPromptTemplate, transcript, summary))
	if err != nil {
		return nil, err
	}
	var scores grading.QualityScores
	if err := llm.DecodeLLMJSON(response, &scores); err != nil {
		return nil, fmt.Errorf("score: parse payload: %w", err)
	}
	for i, item := range scores.Items() {
		if item.Score < 1 || item.Score > 5 {
			return nil, fmt.Errorf("score: rubric item %d has out-of-range score %d", i, item.Score)
		}
	}
	return &scores, nil
}
