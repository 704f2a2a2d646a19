package agents

import (
	"context"
	"time"

	"callgrade/internal/state"
)

// Routing decision values recorded in the state's next_step field.
const (
	NextSuccess  = "success"
	NextRetry    = "retry"
	NextFallback = "fallback"
)

// Routing declares the run's outcome: success when scores are in and no error
// is pending, a retry when budget remains for a retryable failure, otherwise
// the fallback path. A granted retry is logged to the error history and the
// error fields are cleared so re-entered stages actually re-attempt.
func (p *Pipeline) Routing(_ context.Context, cs *state.CallState) (state.Update, error) {
	now := time.Now()

	if cs.Error == "" && cs.QualityScores != nil {
		return state.Update{
			Status:                state.Ptr(state.StatusCompleted),
			NextStep:              state.Ptr(NextSuccess),
			CompletedAt:           state.Ptr(now),
			ProcessingTimeSeconds: state.Ptr(processingTime(cs, now)),
			CurrentStep:           state.Ptr(StageRouting),
		}, nil
	}

	if cs.Error != "" && cs.ErrorKind.IsRetryable() && cs.ErrorCount < cs.MaxRetries {
		entry := state.ErrorEvent{
			Step:       cs.CurrentStep,
			Error:      cs.Error,
			Kind:       cs.ErrorKind,
			Timestamp:  now,
			RetryCount: cs.ErrorCount,
		}
		return state.Update{
			ErrorHistory: []state.ErrorEvent{entry},
			Status:       state.Ptr(state.StatusRetrying),
			NextStep:     state.Ptr(NextRetry),
			CurrentStep:  state.Ptr(StageRouting),
			Error:        state.Ptr(""),
			ErrorKind:    state.Ptr(state.ErrKindNone),
		}, nil
	}

	return state.Update{
		Status:      state.Ptr(state.StatusFailed),
		NextStep:    state.Ptr(NextFallback),
		CurrentStep: state.Ptr(StageRouting),
	}, nil
}

// ErrorHandler is the terminal failure path: it translates the internal error
// kind into user-facing text, records which artifacts survived, and closes
// the run. It never fails.
func (p *Pipeline) ErrorHandler(_ context.Context, cs *state.CallState) (state.Update, error) {
	kind := cs.ErrorKind
	if kind == state.ErrKindNone {
		kind = state.ErrKindUnknown
	}
	errText := cs.Error
	if errText == "" {
		errText = "unknown error"
	}

	return state.Update{
		Status:    state.Ptr(state.StatusFailed),
		Error:     state.Ptr(kind.UserMessage(errText)),
		ErrorKind: state.Ptr(kind),
		PartialResults: &state.PartialResults{
			TranscriptAvailable: cs.Transcript != "",
			SummaryAvailable:    cs.Summary != nil,
			ScoresAvailable:     cs.QualityScores != nil,
		},
		CompletedAt: state.Ptr(time.Now()),
		CurrentStep: state.Ptr(StageErrorHandler),
	}, nil
}

func processingTime(cs *state.CallState, now time.Time) float64 {
	if cs.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(cs.StartedAt).Seconds()
}
