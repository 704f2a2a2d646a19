package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"callgrade/internal/agents"
	"callgrade/internal/graph"
	"callgrade/internal/state"
	"callgrade/internal/workflow"
)

func newGradeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var showTranscript bool
	var maxRetries int

	cmd := &cobra.Command{
		Use:   "grade <file>",
		Short: "Run the grading pipeline against an audio or transcript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}
			deps, err := ctx.buildCollaborators()
			if err != nil {
				return err
			}

			pipeline := agents.NewPipeline(ctx.pipelineConfig(), deps, logger)
			compiled, err := pipeline.Graph()
			if err != nil {
				return fmt.Errorf("compile pipeline: %w", err)
			}

			retries := cfg.Workflow.MaxRetries
			if cmd.Flags().Changed("max-retries") {
				retries = maxRetries
			}
			if retries < 0 {
				return fmt.Errorf("max-retries must be zero or positive, got %d", retries)
			}

			cs := state.New(args[0], retries)
			runner := workflow.NewRunner(compiled, logger)

			out := cmd.OutOrStdout()
			progress := func(ev graph.StepEvent, s *state.CallState) {
				if jsonOutput {
					return
				}
				renderProgress(out, ev.Node, s)
			}

			final, runErr := runner.Run(cmd.Context(), cs, progress)
			if runErr != nil {
				if errors.Is(runErr, graph.ErrAborted) {
					return fmt.Errorf("grading aborted: %w", runErr)
				}
				return runErr
			}

			if jsonOutput {
				return writeJSON(cmd, final)
			}

			renderReport(out, final, cfg.Scoring.PassingThreshold, showTranscript)
			if final.Status == state.StatusFailed {
				return fmt.Errorf("grading failed: %s", final.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the final run state as JSON")
	cmd.Flags().BoolVar(&showTranscript, "show-transcript", false, "Include the transcript in the report")
	cmd.Flags().IntVar(&maxRetries, "max-retries", state.DefaultMaxRetries, "Retry budget for transient stage failures")
	return cmd
}
