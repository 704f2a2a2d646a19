package agents

import (
	"context"
	"fmt"

	"callgrade/internal/grading"
	"callgrade/internal/state"
)

// Summarization produces the structured call summary. Once upstream has
// failed the stage becomes a pass-through error carrier so the router always
// sees a terminal-looking state.
func (p *Pipeline) Summarization(ctx context.Context, cs *state.CallState) (state.Update, error) {
	if upd, failed := shortCircuit(cs, StageSummarize); failed {
		return upd, nil
	}

	if !cs.HasTranscript() {
		return state.Update{
			Error:       state.Ptr("no transcript available for summarization"),
			ErrorKind:   state.Ptr(state.ErrKindMissingTranscript),
			ErrorCount:  state.Ptr(cs.ErrorCount + 1),
			CurrentStep: state.Ptr(StageSummarize),
		}, nil
	}

	summary, err := p.deps.Summarizer.Summarize(ctx, cs.Transcript)
	if err != nil {
		return state.Update{
			Error:       state.Ptr(fmt.Sprintf("summarization failed: %v", err)),
			ErrorKind:   state.Ptr(state.ErrKindSummarization),
			ErrorCount:  state.Ptr(cs.ErrorCount + 1),
			CurrentStep: state.Ptr(StageSummarize),
		}, nil
	}

	return state.Update{
		Summary:          summary,
		KeyPoints:        summary.KeyTopics,
		CustomerIntent:   state.Ptr(summary.CustomerIssue),
		ResolutionStatus: state.Ptr(grading.ResolveStatus(summary.ResolutionProvided)),
		CurrentStep:      state.Ptr(StageSummarize),
		Error:            state.Ptr(""),
		ErrorKind:        state.Ptr(state.ErrKindNone),
	}, nil
}

// shortCircuit re-emits an existing failure instead of doing work. The error
// kind defaults to previous-step when upstream did not tag one.
func shortCircuit(cs *state.CallState, step string) (state.Update, bool) {
	if cs.Status != state.StatusFailed && cs.Error == "" {
		return state.Update{}, false
	}
	msg := cs.Error
	if msg == "" {
		msg = "previous step failed"
	}
	kind := cs.ErrorKind
	if kind == state.ErrKindNone {
		kind = state.ErrKindPreviousStep
	}
	return state.Update{
		Error:       state.Ptr(msg),
		ErrorKind:   state.Ptr(kind),
		Status:      state.Ptr(state.StatusFailed),
		CurrentStep: state.Ptr(step),
	}, true
}
