package workflow

import (
	"context"
	"log/slog"
	"time"

	"callgrade/internal/graph"
	"callgrade/internal/logging"
	"callgrade/internal/services"
	"callgrade/internal/state"
)

// Progress observes a run after each stage's update has been merged. The state
// pointer is the live run state; observers must not mutate it.
type Progress func(event graph.StepEvent, s *state.CallState)

// Runner executes grading runs against a compiled pipeline graph.
type Runner struct {
	graph  *graph.Graph
	logger *slog.Logger
}

// NewRunner constructs a runner. A nil logger disables run logging.
func NewRunner(g *graph.Graph, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{graph: g, logger: logger}
}

// Run drives the state through the pipeline and returns the final state. The
// returned state is valid even on error: a fatal abort leaves the last merged
// state behind, and ordinary failures end at the error-handler stage.
func (r *Runner) Run(ctx context.Context, cs *state.CallState, progress Progress) (*state.CallState, error) {
	ctx = services.WithRunID(ctx, cs.RunID)
	runLogger := logging.WithContext(ctx, r.logger)

	runLogger.Info(
		"grading run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input_file", cs.InputFilePath),
		logging.Int("max_retries", cs.MaxRetries),
	)
	start := time.Now()

	err := r.graph.Stream(ctx, cs, func(ev graph.StepEvent) error {
		stageCtx := logging.WithStage(ctx, ev.Node)
		stageLogger := logging.WithContext(stageCtx, r.logger)
		if cs.Error != "" {
			stageLogger.Warn(
				"stage reported failure",
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.String("error_type", string(cs.ErrorKind)),
				logging.Int("error_count", cs.ErrorCount),
			)
		} else {
			stageLogger.Info(
				"stage completed",
				logging.String(logging.FieldEventType, "stage_complete"),
				logging.String("status", string(cs.Status)),
			)
		}
		if progress != nil {
			progress(ev, cs)
		}
		return nil
	})
	if err != nil {
		runLogger.Error(
			"grading run aborted",
			logging.String(logging.FieldEventType, "run_abort"),
			logging.Error(err),
		)
		return cs, err
	}

	runLogger.Info(
		"grading run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("status", string(cs.Status)),
		logging.String("grade", cs.OverallGrade),
		logging.Duration("duration", time.Since(start)),
	)
	return cs, nil
}
