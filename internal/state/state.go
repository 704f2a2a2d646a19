package state

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"callgrade/internal/grading"
)

// Status is the lifecycle of a processing run.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRetrying   Status = "retrying"
	StatusFailed     Status = "failed"
)

// FileType classifies the input artifact.
type FileType string

const (
	FileTypeAudio      FileType = "audio"
	FileTypeTranscript FileType = "transcript"
)

// DefaultMaxRetries bounds the workflow-level retry loop when the caller does
// not specify a limit.
const DefaultMaxRetries = 2

// FileMetadata describes the input file as seen by intake. Audio fields are
// zero for transcript inputs.
type FileMetadata struct {
	FileName      string  `json:"file_name"`
	FileSizeBytes int64   `json:"file_size_bytes"`
	FileFormat    string  `json:"file_format"`
	Duration      float64 `json:"duration_seconds,omitempty"`
	SampleRate    int     `json:"sample_rate,omitempty"`
	Channels      int     `json:"channels,omitempty"`
}

// SpeakerSegment is one diarized span of the transcript.
type SpeakerSegment struct {
	Speaker int     `json:"speaker"`
	Role    string  `json:"role,omitempty"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// ErrorEvent records one failed stage attempt at the moment a retry was
// granted.
type ErrorEvent struct {
	Step       string    `json:"step"`
	Error      string    `json:"error"`
	Kind       ErrorKind `json:"error_type"`
	Timestamp  time.Time `json:"timestamp"`
	RetryCount int       `json:"retry_count"`
}

// PartialResults flags which artifacts survived a failed run.
type PartialResults struct {
	TranscriptAvailable bool `json:"transcript_available"`
	SummaryAvailable    bool `json:"summary_available"`
	ScoresAvailable     bool `json:"scores_available"`
}

// CallState is the single record threaded through every pipeline stage.
// Stages never mutate it directly; they return an Update that the engine
// merges in.
type CallState struct {
	RunID string `json:"run_id"`

	InputFilePath string   `json:"input_file_path"`
	InputFileName string   `json:"input_file_name"`
	InputFileType FileType `json:"input_file_type,omitempty"`

	Metadata         *FileMetadata `json:"metadata,omitempty"`
	HasAudio         bool          `json:"has_audio"`
	FileValidated    bool          `json:"file_validated"`
	ValidationErrors []string      `json:"validation_errors,omitempty"`
	RawTranscript    string        `json:"raw_transcript,omitempty"`

	Transcript            string           `json:"transcript,omitempty"`
	TranscriptPlain       string           `json:"transcript_plain,omitempty"`
	SpeakerSegments       []SpeakerSegment `json:"speaker_segments,omitempty"`
	NumSpeakers           int              `json:"num_speakers,omitempty"`
	TranscriptionLanguage string           `json:"transcription_language,omitempty"`
	TranscriptionDuration float64          `json:"transcription_duration,omitempty"`

	Summary          *grading.CallSummary     `json:"summary,omitempty"`
	KeyPoints        []string                 `json:"key_points,omitempty"`
	CustomerIntent   string                   `json:"customer_intent,omitempty"`
	ResolutionStatus grading.ResolutionStatus `json:"resolution_status,omitempty"`

	QualityScores   *grading.QualityScores `json:"quality_scores,omitempty"`
	OverallGrade    string                 `json:"overall_grade,omitempty"`
	Recommendations []string               `json:"recommendations,omitempty"`

	Error        string       `json:"error,omitempty"`
	ErrorKind    ErrorKind    `json:"error_type,omitempty"`
	ErrorCount   int          `json:"error_count"`
	MaxRetries   int          `json:"max_retries"`
	ErrorHistory []ErrorEvent `json:"error_history,omitempty"`

	Status      Status `json:"workflow_status"`
	CurrentStep string `json:"current_step,omitempty"`
	NextStep    string `json:"next_step,omitempty"`

	PartialResults *PartialResults `json:"partial_results,omitempty"`

	StartedAt             time.Time `json:"started_at"`
	CompletedAt           time.Time `json:"completed_at,omitzero"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds,omitempty"`
}

// New creates the initial state for a run. maxRetries values below zero fall
// back to DefaultMaxRetries.
func New(inputPath string, maxRetries int) *CallState {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &CallState{
		RunID:         uuid.NewString(),
		InputFilePath: inputPath,
		InputFileName: filepath.Base(inputPath),
		MaxRetries:    maxRetries,
		Status:        StatusInProgress,
		StartedAt:     time.Now(),
	}
}

// HasTranscript reports whether a transcript is available for downstream
// stages.
func (s *CallState) HasTranscript() bool {
	return s.Transcript != ""
}

// Terminal reports whether the run has reached a final status.
func (s *CallState) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}
