package state

import "fmt"

// ErrorKind classifies a stage failure. The workflow core routes and retries
// on the kind alone; only the error-handler stage turns a kind into
// user-facing text.
type ErrorKind string

const (
	ErrKindNone                ErrorKind = ""
	ErrKindMissingInput        ErrorKind = "missing_input"
	ErrKindFileNotFound        ErrorKind = "file_not_found"
	ErrKindFileTooLarge        ErrorKind = "file_too_large"
	ErrKindUnsupportedFormat   ErrorKind = "unsupported_format"
	ErrKindTranscription       ErrorKind = "transcription"
	ErrKindSummarization       ErrorKind = "summarization"
	ErrKindScoring             ErrorKind = "scoring"
	ErrKindMissingTranscript   ErrorKind = "missing_transcript"
	ErrKindMissingScoringInput ErrorKind = "missing_scoring_input"
	ErrKindPreviousStep        ErrorKind = "previous_step"
	ErrKindContentValidation   ErrorKind = "content_validation"
	ErrKindUnknown             ErrorKind = "unknown"
)

var retryableKinds = map[ErrorKind]struct{}{
	ErrKindTranscription:       {},
	ErrKindSummarization:       {},
	ErrKindScoring:             {},
	ErrKindMissingTranscript:   {},
	ErrKindMissingScoringInput: {},
}

// IsRetryable reports whether a failure of this kind may be retried by the
// workflow-level retry loop. Intake validation failures and the fatal
// content-validation abort are never retryable.
func (k ErrorKind) IsRetryable() bool {
	_, ok := retryableKinds[k]
	return ok
}

var userMessages = map[ErrorKind]string{
	ErrKindMissingInput:        "Required input was not provided.",
	ErrKindFileNotFound:        "The uploaded file could not be found. Please try uploading again.",
	ErrKindFileTooLarge:        "The file is too large. Please upload a smaller file.",
	ErrKindUnsupportedFormat:   "This file format is not supported. Please use an audio or transcript file.",
	ErrKindTranscription:       "Could not transcribe the audio. Please ensure the audio is clear and try again.",
	ErrKindSummarization:       "Could not generate summary. Please try again later.",
	ErrKindScoring:             "Could not complete quality scoring. Please try again later.",
	ErrKindMissingTranscript:   "Transcript is required but was not available.",
	ErrKindMissingScoringInput: "Cannot score without a transcript.",
	ErrKindPreviousStep:        "An earlier processing step failed.",
	ErrKindContentValidation:   "The input does not appear to be a call-center conversation.",
}

// UserMessage maps k to a fixed human-readable message. Unrecognized kinds get
// a generic message carrying the raw error text.
func (k ErrorKind) UserMessage(err string) string {
	if msg, ok := userMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("An error occurred: %s", err)
}
