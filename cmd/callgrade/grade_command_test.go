package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"callgrade/internal/config"
	"callgrade/internal/grading"
	"callgrade/internal/state"
	"callgrade/internal/testsupport"
)

type chatRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatContent(t *testing.T, payload any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return string(data)
}

// newChatServer answers summarization and scoring requests based on the system
// prompt of each request.
func newChatServer(t *testing.T, scores *grading.QualityScores) *httptest.Server {
	t.Helper()
	summary := grading.CallSummary{
		BriefSummary:       "Customer reported a duplicate charge and the agent reversed it.",
		CustomerIssue:      "Duplicate charge",
		ResolutionProvided: "Charge reversed, issue resolved",
		CustomerSentiment:  "positive",
		CallCategory:       "support",
		KeyTopics:          []string{"billing"},
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode chat request: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if len(req.Messages) == 0 {
			http.Error(w, "no messages", http.StatusBadRequest)
			return
		}
		var content string
		switch {
		case strings.Contains(req.Messages[0].Content, "structured summaries"):
			content = chatContent(t, summary)
		case strings.Contains(req.Messages[0].Content, "quality assurance evaluator"):
			content = chatContent(t, scores)
		default:
			t.Errorf("unexpected system prompt: %.80s", req.Messages[0].Content)
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode chat response: %v", err)
		}
	}))
}

func fullScores(score int) *grading.QualityScores {
	item := grading.RubricScore{Score: score, Level: grading.LevelGood, Evidence: "quote", Feedback: "solid"}
	return &grading.QualityScores{
		Greeting:            grading.GreetingAndOpening{ProperGreeting: item, VerifiedCustomer: item, SetExpectations: item},
		Communication:       grading.CommunicationSkills{Clarity: item, Tone: item, ActiveListening: item, Empathy: item, AvoidedJargon: item},
		Resolution:          grading.ProblemResolution{Understanding: item, Knowledge: item, SolutionQuality: item, FirstCallResolution: item, ProactiveHelp: item},
		Professionalism:     grading.Professionalism{Courtesy: item, Patience: item, Ownership: item, Confidentiality: item},
		Closing:             grading.CallClosing{Summarized: item, NextSteps: item, SatisfactionCheck: item, ProperClosing: item},
		Strengths:           []string{"clear ownership of the issue"},
		AreasForImprovement: []string{"confirm satisfaction before closing"},
	}
}

func writeGradeConfig(t *testing.T, baseURL string, opts ...testsupport.ConfigOption) string {
	t.Helper()
	base := func(cfg *config.Config) {
		cfg.OpenAI.BaseURL = baseURL
		cfg.Logging.Level = "error"
	}
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{base}, opts...)...)

	body, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return target
}

const gradeTranscript = `Agent: Thank you for calling support, this is Sam. How can I help?
Customer: Hi, I was charged twice for my subscription this month.
Agent: I am sorry about that. Let me pull up your account and fix it right away.
Customer: Thank you, that would be great.
Agent: The duplicate charge has been reversed. Anything else I can help with?
Customer: No, that covers it. Thanks for the quick fix.
`

func TestGradeCommandGradesTranscript(t *testing.T) {
	server := newChatServer(t, fullScores(4))
	defer server.Close()

	cfgPath := writeGradeConfig(t, server.URL)
	transcript := filepath.Join(t.TempDir(), "call.txt")
	testsupport.WriteTranscript(t, transcript, gradeTranscript)

	out, err := runCommand(t, "--config", cfgPath, "grade", transcript)
	if err != nil {
		t.Fatalf("grade: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Call Grading Report") {
		t.Fatalf("output missing report header:\n%s", out)
	}
	if !strings.Contains(out, "84/95") {
		t.Fatalf("output missing score:\n%s", out)
	}
	if !strings.Contains(out, "B (pass)") {
		t.Fatalf("output missing grade verdict:\n%s", out)
	}
	if !strings.Contains(out, "Proper greeting") {
		t.Fatalf("output missing rubric rows:\n%s", out)
	}
	if !strings.Contains(out, "resolved") {
		t.Fatalf("output missing resolution status:\n%s", out)
	}
}

func TestGradeCommandJSONOutput(t *testing.T) {
	server := newChatServer(t, fullScores(4))
	defer server.Close()

	cfgPath := writeGradeConfig(t, server.URL)
	transcript := filepath.Join(t.TempDir(), "call.txt")
	testsupport.WriteTranscript(t, transcript, gradeTranscript)

	out, err := runCommand(t, "--config", cfgPath, "grade", transcript, "--json")
	if err != nil {
		t.Fatalf("grade --json: %v\n%s", err, out)
	}

	var final state.CallState
	if err := json.Unmarshal([]byte(out), &final); err != nil {
		t.Fatalf("parse final state: %v\n%s", err, out)
	}
	if final.Status != state.StatusCompleted {
		t.Fatalf("status = %s, want completed", final.Status)
	}
	if final.QualityScores == nil || final.QualityScores.PercentageScore < 88 {
		t.Fatalf("quality scores = %+v", final.QualityScores)
	}
	if final.RunID == "" {
		t.Fatal("expected run id in JSON output")
	}
	if strings.Contains(out, "Call Grading Report") {
		t.Fatal("JSON mode must not render the report")
	}
}

func TestGradeCommandRejectsMissingFile(t *testing.T) {
	server := newChatServer(t, fullScores(4))
	defer server.Close()

	cfgPath := writeGradeConfig(t, server.URL)

	out, err := runCommand(t, "--config", cfgPath, "grade", "/nonexistent/call.txt")
	if err == nil {
		t.Fatalf("expected failure, got:\n%s", out)
	}
	if !strings.Contains(err.Error(), "could not be found") {
		t.Fatalf("err = %v, want user-facing file-not-found message", err)
	}
	if !strings.Contains(out, "Failure") {
		t.Fatalf("output missing failure section:\n%s", out)
	}
}

func TestGradeCommandRejectsOversizedAudio(t *testing.T) {
	server := newChatServer(t, fullScores(4))
	defer server.Close()

	cfgPath := writeGradeConfig(t, server.URL, testsupport.WithMaxFileSizeMB(1))
	audio := filepath.Join(t.TempDir(), "call.wav")
	testsupport.WriteAudioStub(t, audio, 1024*1024+1)

	out, err := runCommand(t, "--config", cfgPath, "grade", audio)
	if err == nil {
		t.Fatalf("expected failure, got:\n%s", out)
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Fatalf("err = %v, want user-facing size message", err)
	}
	if !strings.Contains(out, "Failure") {
		t.Fatalf("output missing failure section:\n%s", out)
	}
}
