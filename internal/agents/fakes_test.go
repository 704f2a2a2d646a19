package agents

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"callgrade/internal/grading"
	"callgrade/internal/state"
)

type fakeProber struct {
	info  AudioInfo
	err   error
	calls int
}

func (f *fakeProber) Probe(context.Context, string) (AudioInfo, error) {
	f.calls++
	return f.info, f.err
}

type fakeValidator struct {
	valid  bool
	reason string
	calls  int
}

func (f *fakeValidator) Validate(context.Context, string) (bool, string) {
	f.calls++
	return f.valid, f.reason
}

type fakeTranscriber struct {
	result Transcription
	err    error
	calls  int
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (Transcription, error) {
	f.calls++
	return f.result, f.err
}

type fakeClassifier struct {
	transcript string
	segments   []state.SpeakerSegment
	err        error
	calls      int
}

func (f *fakeClassifier) Classify(_ context.Context, transcript string, segments []state.SpeakerSegment) (string, []state.SpeakerSegment, error) {
	f.calls++
	if f.err != nil {
		return "", nil, f.err
	}
	return f.transcript, f.segments, nil
}

type fakeSummarizer struct {
	summary *grading.CallSummary
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(context.Context, string) (*grading.CallSummary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeScorer struct {
	scores *grading.QualityScores
	err    error
	calls  int
}

func (f *fakeScorer) Score(context.Context, string, string) (*grading.QualityScores, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// Callers finalize in place; hand out a copy so fakes stay reusable.
	scores := *f.scores
	return &scores, nil
}

type pipelineDeps struct {
	prober      *fakeProber
	validator   *fakeValidator
	transcriber *fakeTranscriber
	classifier  *fakeClassifier
	summarizer  *fakeSummarizer
	scorer      *fakeScorer
}

func defaultDeps() *pipelineDeps {
	return &pipelineDeps{
		prober:      &fakeProber{info: AudioInfo{Duration: 42, SampleRate: 16000, Channels: 1}},
		validator:   &fakeValidator{valid: true, reason: "content validated as call center conversation"},
		transcriber: &fakeTranscriber{result: singleSpeakerResult()},
		classifier:  &fakeClassifier{},
		summarizer:  &fakeSummarizer{summary: sampleSummary()},
		scorer:      &fakeScorer{scores: uniformScores(4)},
	}
}

func newTestPipeline(deps *pipelineDeps) *Pipeline {
	return NewPipeline(
		Config{
			MaxFileSizeMB:       1,
			AudioExtensions:     []string{".wav", ".mp3"},
			TextExtensions:      []string{".txt"},
			EscalationThreshold: 50,
		},
		Collaborators{
			Prober:      deps.prober,
			Validator:   deps.validator,
			Transcriber: deps.transcriber,
			Classifier:  deps.classifier,
			Summarizer:  deps.summarizer,
			Scorer:      deps.scorer,
		},
		nil,
	)
}

func singleSpeakerResult() Transcription {
	return Transcription{
		Formatted:   "Just one voice talking.",
		Plain:       "Just one voice talking.",
		NumSpeakers: 1,
		Language:    "en",
		Duration:    30,
	}
}

func twoSpeakerResult() Transcription {
	return Transcription{
		Formatted: "**Speaker 0:** Hello, thanks for calling.\n**Speaker 1:** Hi, my bill is wrong.",
		Plain:     "Hello, thanks for calling. Hi, my bill is wrong.",
		Segments: []state.SpeakerSegment{
			{Speaker: 0, Text: "Hello, thanks for calling.", Start: 0, End: 2},
			{Speaker: 1, Text: "Hi, my bill is wrong.", Start: 2.2, End: 4},
		},
		NumSpeakers: 2,
		Language:    "en",
		Duration:    60,
	}
}

func sampleSummary() *grading.CallSummary {
	return &grading.CallSummary{
		BriefSummary:       "Customer called about a billing error, which the agent resolved.",
		CustomerIssue:      "Incorrect charge on monthly bill",
		ResolutionProvided: "Agent resolved the issue by reversing the charge",
		CustomerSentiment:  "positive",
		CallCategory:       "support",
		KeyTopics:          []string{"billing", "refund"},
		ActionItems:        []string{},
	}
}

func uniformScores(score int) *grading.QualityScores {
	item := grading.RubricScore{Score: score, Level: grading.LevelGood, Evidence: "quote", Feedback: "keep it up"}
	return &grading.QualityScores{
		Greeting:            grading.GreetingAndOpening{ProperGreeting: item, VerifiedCustomer: item, SetExpectations: item},
		Communication:       grading.CommunicationSkills{Clarity: item, Tone: item, ActiveListening: item, Empathy: item, AvoidedJargon: item},
		Resolution:          grading.ProblemResolution{Understanding: item, Knowledge: item, SolutionQuality: item, FirstCallResolution: item, ProactiveHelp: item},
		Professionalism:     grading.Professionalism{Courtesy: item, Patience: item, Ownership: item, Confidentiality: item},
		Closing:             grading.CallClosing{Summarized: item, NextSteps: item, SatisfactionCheck: item, ProperClosing: item},
		Strengths:           []string{"tone", "clarity", "ownership"},
		AreasForImprovement: []string{"closing", "next steps", "satisfaction check"},
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

const transcriptBody = "Agent: Hello, thank you for calling support, this is Sam.\n" +
	"Customer: Hi, I was charged twice this month.\n" +
	"Agent: Let me look into that for you right away.\n" +
	"Customer: Thanks, I appreciate it.\n"
