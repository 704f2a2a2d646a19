package state

import (
	"time"

	"callgrade/internal/grading"
)

// Update is the sparse partial update a stage returns. Nil fields leave the
// base state untouched; set fields overwrite it wholesale. ErrorHistory is the
// one exception: entries are appended, never replaced. Pointer fields give
// stages tri-state control, so an update can explicitly clear the error
// message without every other update being forced to carry one.
type Update struct {
	InputFileName *string
	InputFileType *FileType

	Metadata         *FileMetadata
	HasAudio         *bool
	FileValidated    *bool
	ValidationErrors []string
	RawTranscript    *string

	Transcript            *string
	TranscriptPlain       *string
	SpeakerSegments       []SpeakerSegment
	NumSpeakers           *int
	TranscriptionLanguage *string
	TranscriptionDuration *float64

	Summary          *grading.CallSummary
	KeyPoints        []string
	CustomerIntent   *string
	ResolutionStatus *grading.ResolutionStatus

	QualityScores   *grading.QualityScores
	OverallGrade    *string
	Recommendations []string

	Error        *string
	ErrorKind    *ErrorKind
	ErrorCount   *int
	ErrorHistory []ErrorEvent

	Status      *Status
	CurrentStep *string
	NextStep    *string

	PartialResults *PartialResults

	CompletedAt           *time.Time
	ProcessingTimeSeconds *float64
}

// Ptr returns a pointer to v, for building updates inline.
func Ptr[T any](v T) *T {
	return &v
}

// Merge applies upd to base in place. Every set field replaces the base value;
// record fields are replaced wholesale, never deep-merged. ErrorHistory is
// append-only: base entries stay first, update entries follow in order.
func Merge(base *CallState, upd Update) {
	if upd.InputFileName != nil {
		base.InputFileName = *upd.InputFileName
	}
	if upd.InputFileType != nil {
		base.InputFileType = *upd.InputFileType
	}
	if upd.Metadata != nil {
		base.Metadata = upd.Metadata
	}
	if upd.HasAudio != nil {
		base.HasAudio = *upd.HasAudio
	}
	if upd.FileValidated != nil {
		base.FileValidated = *upd.FileValidated
	}
	if upd.ValidationErrors != nil {
		base.ValidationErrors = upd.ValidationErrors
	}
	if upd.RawTranscript != nil {
		base.RawTranscript = *upd.RawTranscript
	}
	if upd.Transcript != nil {
		base.Transcript = *upd.Transcript
	}
	if upd.TranscriptPlain != nil {
		base.TranscriptPlain = *upd.TranscriptPlain
	}
	if upd.SpeakerSegments != nil {
		base.SpeakerSegments = upd.SpeakerSegments
	}
	if upd.NumSpeakers != nil {
		base.NumSpeakers = *upd.NumSpeakers
	}
	if upd.TranscriptionLanguage != nil {
		base.TranscriptionLanguage = *upd.TranscriptionLanguage
	}
	if upd.TranscriptionDuration != nil {
		base.TranscriptionDuration = *upd.TranscriptionDuration
	}
	if upd.Summary != nil {
		base.Summary = upd.Summary
	}
	if upd.KeyPoints != nil {
		base.KeyPoints = upd.KeyPoints
	}
	if upd.CustomerIntent != nil {
		base.CustomerIntent = *upd.CustomerIntent
	}
	if upd.ResolutionStatus != nil {
		base.ResolutionStatus = *upd.ResolutionStatus
	}
	if upd.QualityScores != nil {
		base.QualityScores = upd.QualityScores
	}
	if upd.OverallGrade != nil {
		base.OverallGrade = *upd.OverallGrade
	}
	if upd.Recommendations != nil {
		base.Recommendations = upd.Recommendations
	}
	if upd.Error != nil {
		base.Error = *upd.Error
	}
	if upd.ErrorKind != nil {
		base.ErrorKind = *upd.ErrorKind
	}
	if upd.ErrorCount != nil {
		base.ErrorCount = *upd.ErrorCount
	}
	base.ErrorHistory = append(base.ErrorHistory, upd.ErrorHistory...)
	if upd.Status != nil {
		base.Status = *upd.Status
	}
	if upd.CurrentStep != nil {
		base.CurrentStep = *upd.CurrentStep
	}
	if upd.NextStep != nil {
		base.NextStep = *upd.NextStep
	}
	if upd.PartialResults != nil {
		base.PartialResults = upd.PartialResults
	}
	if upd.CompletedAt != nil {
		base.CompletedAt = *upd.CompletedAt
	}
	if upd.ProcessingTimeSeconds != nil {
		base.ProcessingTimeSeconds = *upd.ProcessingTimeSeconds
	}
}

// Accumulate folds a sequence of updates onto base in order, with the same
// semantics as Merge. Streaming callers use it to rebuild the final state from
// per-stage events.
func Accumulate(base *CallState, updates ...Update) {
	for _, upd := range updates {
		Merge(base, upd)
	}
}
