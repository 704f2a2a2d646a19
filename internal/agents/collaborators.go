package agents

import (
	"context"

	"callgrade/internal/grading"
	"callgrade/internal/state"
)

// AudioInfo is the metadata an audio probe yields. Zero values are legitimate
// output for an unreadable file.
type AudioInfo struct {
	Duration   float64
	SampleRate int
	Channels   int
}

// Transcription is the shaped output of the speech-to-text collaborator.
type Transcription struct {
	Formatted   string
	Plain       string
	Segments    []state.SpeakerSegment
	NumSpeakers int
	Language    string
	Duration    float64
}

// AudioProber extracts audio metadata from a file. It must not fail the run:
// probe errors surface as an error here and the intake stage records zeros.
type AudioProber interface {
	Probe(ctx context.Context, path string) (AudioInfo, error)
}

// ContentValidator judges whether text is a call-center conversation.
type ContentValidator interface {
	Validate(ctx context.Context, text string) (valid bool, reason string)
}

// Transcriber converts an audio file into a diarized transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (Transcription, error)
}

// RoleClassifier maps diarized speaker indices to call roles and relabels the
// transcript and segments. Callers treat failures as advisory and keep the
// numbered labels.
type RoleClassifier interface {
	Classify(ctx context.Context, transcript string, segments []state.SpeakerSegment) (string, []state.SpeakerSegment, error)
}

// Summarizer produces a structured call summary from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*grading.CallSummary, error)
}

// Scorer evaluates a transcript (with an optional summary) against the call
// quality rubric.
type Scorer interface {
	Score(ctx context.Context, transcript, summary string) (*grading.QualityScores, error)
}

// Collaborators bundles every external dependency the stages call out to.
type Collaborators struct {
	Prober      AudioProber
	Validator   ContentValidator
	Transcriber Transcriber
	Classifier  RoleClassifier
	Summarizer  Summarizer
	Scorer      Scorer
}
