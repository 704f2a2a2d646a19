package agents

import (
	"context"
	"fmt"

	"callgrade/internal/grading"
	"callgrade/internal/state"
)

// Scoring evaluates the transcript against the quality rubric. The summary is
// optional: scoring proceeds with a placeholder when summarization produced
// nothing. Aggregates and the letter grade are recomputed locally so grading
// never trusts the model's own arithmetic.
func (p *Pipeline) Scoring(ctx context.Context, cs *state.CallState) (state.Update, error) {
	if upd, failed := shortCircuit(cs, StageScore); failed {
		return upd, nil
	}

	if !cs.HasTranscript() {
		return state.Update{
			Error:       state.Ptr("no transcript available for scoring"),
			ErrorKind:   state.Ptr(state.ErrKindMissingScoringInput),
			ErrorCount:  state.Ptr(cs.ErrorCount + 1),
			CurrentStep: state.Ptr(StageScore),
		}, nil
	}

	summaryText := "Not available"
	if cs.Summary != nil && cs.Summary.BriefSummary != "" {
		summaryText = cs.Summary.BriefSummary
	}

	scores, err := p.deps.Scorer.Score(ctx, cs.Transcript, summaryText)
	if err != nil {
		return state.Update{
			Error:       state.Ptr(fmt.Sprintf("scoring failed: %v", err)),
			ErrorKind:   state.Ptr(state.ErrKindScoring),
			ErrorCount:  state.Ptr(cs.ErrorCount + 1),
			CurrentStep: state.Ptr(StageScore),
		}, nil
	}

	grading.Finalize(scores)
	if p.cfg.EscalationThreshold > 0 && scores.PercentageScore < p.cfg.EscalationThreshold {
		scores.EscalationRecommended = true
	}

	return state.Update{
		QualityScores:   scores,
		OverallGrade:    state.Ptr(scores.OverallGrade),
		Recommendations: scores.AreasForImprovement,
		CurrentStep:     state.Ptr(StageScore),
		Error:           state.Ptr(""),
		ErrorKind:       state.Ptr(state.ErrKindNone),
	}, nil
}
