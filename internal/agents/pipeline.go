package agents

import (
	"log/slog"

	"callgrade/internal/graph"
	"callgrade/internal/logging"
)

// Stage node names.
const (
	StageIntake       = "intake"
	StageTranscribe   = "transcription"
	StageSummarize    = "summarization"
	StageScore        = "scoring"
	StageRouting      = "routing"
	StageErrorHandler = "error_handler"
)

// Config carries the runtime knobs the stages need.
type Config struct {
	MaxFileSizeMB       int64
	AudioExtensions     []string
	TextExtensions      []string
	EscalationThreshold float64
}

// Pipeline owns the stage functions and their collaborators.
type Pipeline struct {
	cfg    Config
	deps   Collaborators
	logger *slog.Logger
}

// NewPipeline constructs a pipeline. A nil logger disables stage logging.
func NewPipeline(cfg Config, deps Collaborators, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{cfg: cfg, deps: deps, logger: logger}
}

// Graph compiles the fixed five-stage topology:
//
//	intake -> {transcription | summarization | error_handler}
//	transcription -> {summarization | routing | error_handler}
//	summarization -> {scoring | routing | error_handler}
//	scoring -> routing
//	routing -> {end | transcription (retry) | error_handler}
//	error_handler -> end
func (p *Pipeline) Graph() (*graph.Graph, error) {
	return graph.New().
		AddNode(StageIntake, p.Intake).
		AddNode(StageTranscribe, p.Transcription).
		AddNode(StageSummarize, p.Summarization).
		AddNode(StageScore, p.Scoring).
		AddNode(StageRouting, p.Routing).
		AddNode(StageErrorHandler, p.ErrorHandler).
		SetEntry(StageIntake).
		AddConditionalEdges(StageIntake, RouteAfterIntake,
			StageTranscribe, StageSummarize, StageErrorHandler).
		AddConditionalEdges(StageTranscribe, RouteAfterTranscription,
			StageSummarize, StageRouting, StageErrorHandler).
		AddConditionalEdges(StageSummarize, RouteAfterSummarization,
			StageScore, StageRouting, StageErrorHandler).
		AddConditionalEdges(StageScore, RouteAfterScoring,
			StageRouting).
		AddConditionalEdges(StageRouting, RouteAfterRouting,
			graph.End, StageTranscribe, StageErrorHandler).
		AddEdge(StageErrorHandler, graph.End).
		Compile()
}
