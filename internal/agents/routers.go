package agents

import (
	"callgrade/internal/graph"
	"callgrade/internal/state"
)

// Router functions are pure: they read the merged state and name the next
// stage. An error always takes priority over the stage-specific success
// condition; retryable failures detour through the routing stage so the retry
// budget is consulted before giving up.

// RouteAfterIntake sends audio without a transcript to transcription and
// everything else straight to summarization.
func RouteAfterIntake(cs *state.CallState) string {
	if cs.Error != "" {
		return StageErrorHandler
	}
	if cs.HasAudio && !cs.HasTranscript() {
		return StageTranscribe
	}
	return StageSummarize
}

// RouteAfterTranscription requires a non-empty transcript to continue.
func RouteAfterTranscription(cs *state.CallState) string {
	if cs.Error != "" {
		if cs.ErrorKind.IsRetryable() {
			return StageRouting
		}
		return StageErrorHandler
	}
	if !cs.HasTranscript() {
		return StageErrorHandler
	}
	return StageSummarize
}

// RouteAfterSummarization continues to scoring when no error is pending.
func RouteAfterSummarization(cs *state.CallState) string {
	if cs.Error != "" {
		if cs.ErrorKind.IsRetryable() {
			return StageRouting
		}
		return StageErrorHandler
	}
	return StageScore
}

// RouteAfterScoring always defers to the routing stage, which makes the
// success/retry/fallback call.
func RouteAfterScoring(*state.CallState) string {
	return StageRouting
}

// RouteAfterRouting dispatches on the routing stage's decision. Anything
// other than success or retry is the fallback path.
func RouteAfterRouting(cs *state.CallState) string {
	switch cs.NextStep {
	case NextSuccess:
		return graph.End
	case NextRetry:
		return StageTranscribe
	default:
		return StageErrorHandler
	}
}
