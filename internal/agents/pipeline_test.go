package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"callgrade/internal/graph"
	"callgrade/internal/state"
)

func runPipeline(t *testing.T, deps *pipelineDeps, cs *state.CallState) *state.CallState {
	t.Helper()
	g, err := newTestPipeline(deps).Graph()
	if err != nil {
		t.Fatalf("compile graph: %v", err)
	}
	final, err := g.Run(context.Background(), cs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return final
}

func TestPipelineGradesTranscriptInput(t *testing.T) {
	deps := defaultDeps()
	path := writeTempFile(t, "call.txt", transcriptBody)

	final := runPipeline(t, deps, state.New(path, -1))

	if final.Status != state.StatusCompleted {
		t.Fatalf("status = %s, want completed (error: %s)", final.Status, final.Error)
	}
	if final.NextStep != NextSuccess {
		t.Fatalf("next step = %q, want success", final.NextStep)
	}
	if final.OverallGrade != "B" {
		t.Fatalf("grade = %q, want B", final.OverallGrade)
	}
	if final.QualityScores == nil || final.QualityScores.TotalPoints != 84 {
		t.Fatalf("quality scores = %+v", final.QualityScores)
	}
	if final.Summary == nil || final.ResolutionStatus != "resolved" {
		t.Fatalf("summary = %+v, resolution = %q", final.Summary, final.ResolutionStatus)
	}
	if deps.transcriber.calls != 0 {
		t.Fatal("transcript input must not hit the transcriber")
	}
	if final.CompletedAt.IsZero() {
		t.Fatal("expected completed_at")
	}
}

func TestPipelineGradesAudioInput(t *testing.T) {
	deps := defaultDeps()
	deps.transcriber.result = twoSpeakerResult()
	deps.classifier.transcript = "**Agent:** Hello, thanks for calling.\n**Customer:** Hi, my bill is wrong."
	deps.classifier.segments = []state.SpeakerSegment{
		{Speaker: 0, Role: "Agent", Text: "Hello, thanks for calling."},
		{Speaker: 1, Role: "Customer", Text: "Hi, my bill is wrong."},
	}
	path := writeTempFile(t, "call.wav", "fake audio")

	final := runPipeline(t, deps, state.New(path, -1))

	if final.Status != state.StatusCompleted {
		t.Fatalf("status = %s, want completed (error: %s)", final.Status, final.Error)
	}
	if !strings.Contains(final.Transcript, "**Agent:**") {
		t.Fatalf("transcript = %q, want relabeled roles", final.Transcript)
	}
	if final.NumSpeakers != 2 || final.TranscriptionLanguage != "en" {
		t.Fatalf("speakers = %d, language = %q", final.NumSpeakers, final.TranscriptionLanguage)
	}
	if deps.transcriber.calls != 1 || deps.classifier.calls != 1 {
		t.Fatalf("transcriber calls = %d, classifier calls = %d", deps.transcriber.calls, deps.classifier.calls)
	}
	if final.Metadata == nil || final.Metadata.Duration != 42 {
		t.Fatalf("metadata = %+v", final.Metadata)
	}
}

func TestPipelineExhaustsTranscriptionRetries(t *testing.T) {
	deps := defaultDeps()
	deps.transcriber.err = errors.New("deepgram: http 503")
	path := writeTempFile(t, "call.wav", "fake audio")

	final := runPipeline(t, deps, state.New(path, -1))

	if final.Status != state.StatusFailed {
		t.Fatalf("status = %s, want failed", final.Status)
	}
	// max_retries=2: the initial attempt plus one granted retry.
	if deps.transcriber.calls != 2 {
		t.Fatalf("transcriber calls = %d, want 2", deps.transcriber.calls)
	}
	if final.ErrorCount != 2 {
		t.Fatalf("error count = %d, want 2", final.ErrorCount)
	}
	if len(final.ErrorHistory) != 1 {
		t.Fatalf("error history = %+v, want one granted retry", final.ErrorHistory)
	}
	if final.ErrorHistory[0].Kind != state.ErrKindTranscription {
		t.Fatalf("history kind = %s", final.ErrorHistory[0].Kind)
	}
	if final.Error != state.ErrKindTranscription.UserMessage("") {
		t.Fatalf("error = %q, want the user-facing transcription message", final.Error)
	}
	if final.PartialResults == nil || final.PartialResults.TranscriptAvailable {
		t.Fatalf("partial results = %+v, want no transcript", final.PartialResults)
	}
	if deps.summarizer.calls != 0 || deps.scorer.calls != 0 {
		t.Fatal("downstream stages must not run after transcription fails out")
	}
}

func TestPipelineRecoversAfterOneTranscriptionFailure(t *testing.T) {
	deps := defaultDeps()
	flaky := &flakyTranscriber{failures: 1, result: singleSpeakerResult()}
	path := writeTempFile(t, "call.wav", "fake audio")

	p := NewPipeline(
		Config{MaxFileSizeMB: 1, AudioExtensions: []string{".wav"}, TextExtensions: []string{".txt"}, EscalationThreshold: 50},
		Collaborators{
			Prober:      deps.prober,
			Validator:   deps.validator,
			Transcriber: flaky,
			Classifier:  deps.classifier,
			Summarizer:  deps.summarizer,
			Scorer:      deps.scorer,
		},
		nil,
	)
	g, err := p.Graph()
	if err != nil {
		t.Fatalf("compile graph: %v", err)
	}
	final, err := g.Run(context.Background(), state.New(path, -1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if final.Status != state.StatusCompleted {
		t.Fatalf("status = %s, want completed after retry (error: %s)", final.Status, final.Error)
	}
	if flaky.calls != 2 {
		t.Fatalf("transcriber calls = %d, want 2", flaky.calls)
	}
	if len(final.ErrorHistory) != 1 {
		t.Fatalf("error history = %+v, want the failed first attempt", final.ErrorHistory)
	}
	if final.ErrorCount != 1 {
		t.Fatalf("error count = %d, want 1", final.ErrorCount)
	}
	if final.Error != "" {
		t.Fatalf("error = %q, want cleared", final.Error)
	}
}

func TestPipelineAbortsOnInvalidTranscriptContent(t *testing.T) {
	deps := defaultDeps()
	deps.validator.valid = false
	deps.validator.reason = "content appears to be a news article"
	path := writeTempFile(t, "call.txt", "Markets rallied today on strong earnings.")

	g, err := newTestPipeline(deps).Graph()
	if err != nil {
		t.Fatalf("compile graph: %v", err)
	}
	cs := state.New(path, -1)
	final, err := g.Run(context.Background(), cs)
	if !errors.Is(err, graph.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if final.ErrorCount != 0 {
		t.Fatalf("error count = %d, abort must not consume retry budget", final.ErrorCount)
	}
	if deps.summarizer.calls != 0 {
		t.Fatal("no stage may run after an abort")
	}
}

func TestPipelineRoutesIntakeFailureToErrorHandler(t *testing.T) {
	deps := defaultDeps()

	final := runPipeline(t, deps, state.New("/nonexistent/call.wav", -1))

	if final.Status != state.StatusFailed {
		t.Fatalf("status = %s, want failed", final.Status)
	}
	if final.ErrorCount != 0 {
		t.Fatalf("error count = %d, intake failures must not consume retry budget", final.ErrorCount)
	}
	if final.Error != state.ErrKindFileNotFound.UserMessage("") {
		t.Fatalf("error = %q, want the user-facing file-not-found message", final.Error)
	}
	if deps.transcriber.calls != 0 || deps.summarizer.calls != 0 {
		t.Fatal("pipeline stages must not run after an intake failure")
	}
}

func TestPipelineExhaustsSummarizationRetries(t *testing.T) {
	deps := defaultDeps()
	deps.summarizer.err = errors.New("llm: http 500")
	path := writeTempFile(t, "call.txt", transcriptBody)

	final := runPipeline(t, deps, state.New(path, -1))

	if final.Status != state.StatusFailed {
		t.Fatalf("status = %s, want failed", final.Status)
	}
	// Retries re-enter at transcription, which passes through on an existing
	// transcript, so the summarizer sees every attempt.
	if deps.summarizer.calls != 2 {
		t.Fatalf("summarizer calls = %d, want 2", deps.summarizer.calls)
	}
	if final.PartialResults == nil || !final.PartialResults.TranscriptAvailable || final.PartialResults.SummaryAvailable {
		t.Fatalf("partial results = %+v", final.PartialResults)
	}
	if final.Error != state.ErrKindSummarization.UserMessage("") {
		t.Fatalf("error = %q", final.Error)
	}
}

type flakyTranscriber struct {
	failures int
	result   Transcription
	calls    int
}

func (f *flakyTranscriber) Transcribe(_ context.Context, _ string) (Transcription, error) {
	f.calls++
	if f.calls <= f.failures {
		return Transcription{}, errors.New("deepgram: http 503")
	}
	return f.result, nil
}
