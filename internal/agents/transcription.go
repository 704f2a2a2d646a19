package agents

import (
	"context"
	"fmt"
	"strings"

	"callgrade/internal/graph"
	"callgrade/internal/logging"
	"callgrade/internal/state"
)

// Transcription converts the audio input into a diarized transcript. When a
// transcript is already present (transcript-kind input) the stage is a
// passthrough. Provider failures are retryable; a content-validation
// rejection of the produced transcript aborts the run.
func (p *Pipeline) Transcription(ctx context.Context, cs *state.CallState) (state.Update, error) {
	if cs.HasTranscript() {
		return state.Update{CurrentStep: state.Ptr(StageTranscribe)}, nil
	}

	if strings.TrimSpace(cs.InputFilePath) == "" {
		return state.Update{
			Error:       state.Ptr("no input file path for transcription"),
			ErrorKind:   state.Ptr(state.ErrKindMissingInput),
			ErrorCount:  state.Ptr(cs.ErrorCount + 1),
			CurrentStep: state.Ptr(StageTranscribe),
		}, nil
	}

	result, err := p.deps.Transcriber.Transcribe(ctx, cs.InputFilePath)
	if err != nil {
		return state.Update{
			Error:       state.Ptr(fmt.Sprintf("transcription failed: %v", err)),
			ErrorKind:   state.Ptr(state.ErrKindTranscription),
			ErrorCount:  state.Ptr(cs.ErrorCount + 1),
			CurrentStep: state.Ptr(StageTranscribe),
		}, nil
	}

	transcript := result.Formatted
	if strings.TrimSpace(transcript) == "" {
		transcript = result.Plain
	}

	valid, reason := p.deps.Validator.Validate(ctx, transcript)
	if !valid {
		return state.Update{}, fmt.Errorf("%w: %s", graph.ErrAborted, reason)
	}

	segments := result.Segments
	if result.NumSpeakers > 1 {
		relabeled, updated, err := p.deps.Classifier.Classify(ctx, transcript, segments)
		if err != nil {
			// Best effort: keep the numbered speaker labels.
			p.logger.Warn("speaker role classification failed",
				logging.String(logging.FieldStage, StageTranscribe),
				logging.Error(err))
		} else {
			transcript = relabeled
			segments = updated
		}
	}

	return state.Update{
		Transcript:            state.Ptr(transcript),
		TranscriptPlain:       state.Ptr(result.Plain),
		SpeakerSegments:       segments,
		NumSpeakers:           state.Ptr(result.NumSpeakers),
		TranscriptionLanguage: state.Ptr(result.Language),
		TranscriptionDuration: state.Ptr(result.Duration),
		CurrentStep:           state.Ptr(StageTranscribe),
		Error:                 state.Ptr(""),
		ErrorKind:             state.Ptr(state.ErrKindNone),
	}, nil
}
