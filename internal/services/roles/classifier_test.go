package roles

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"callgrade/internal/state"
)

type fakeCompleter struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, _, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func TestClassifyRelabelsTranscriptAndSegments(t *testing.T) {
	c := NewClassifier(&fakeCompleter{response: `{"0": "Agent", "1": "Customer"}`})

	transcript := "**Speaker 0:** Hello, thanks for calling.\n**Speaker 1:** Hi, my bill is wrong.\n**Speaker 0:** Let me check."
	segments := []state.SpeakerSegment{
		{Speaker: 0, Text: "Hello, thanks for calling."},
		{Speaker: 1, Text: "Hi, my bill is wrong."},
		{Speaker: 0, Text: "Let me check."},
	}

	relabeled, updated, err := c.Classify(context.Background(), transcript, segments)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if strings.Contains(relabeled, "Speaker 0") || strings.Contains(relabeled, "Speaker 1") {
		t.Fatalf("numbered labels left behind:\n%s", relabeled)
	}
	if !strings.Contains(relabeled, "**Agent:**") || !strings.Contains(relabeled, "**Customer:**") {
		t.Fatalf("role labels missing:\n%s", relabeled)
	}
	if updated[0].Role != "Agent" || updated[1].Role != "Customer" || updated[2].Role != "Agent" {
		t.Fatalf("segment roles not applied: %+v", updated)
	}
	// Input segments stay untouched.
	if segments[0].Role != "" {
		t.Fatal("input segments must not be mutated")
	}
}

func TestClassifyToleratesCodeFences(t *testing.T) {
	c := NewClassifier(&fakeCompleter{response: "```json\n{\"0\": \"Agent\", \"1\": \"Customer\"}\n```"})

	relabeled, _, err := c.Classify(context.Background(), "**Speaker 0:** Hello", nil)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !strings.Contains(relabeled, "**Agent:**") {
		t.Fatalf("expected relabeled transcript, got %q", relabeled)
	}
}

func TestClassifyNormalizesRoleCase(t *testing.T) {
	c := NewClassifier(&fakeCompleter{response: `{"0": "AGENT", "1": "customer"}`})

	relabeled, _, err := c.Classify(context.Background(), "**Speaker 0:** Hi\n**Speaker 1:** Hello", nil)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !strings.Contains(relabeled, "**Agent:**") || !strings.Contains(relabeled, "**Customer:**") {
		t.Fatalf("roles not normalized:\n%s", relabeled)
	}
}

func TestClassifyReplacesHigherIndicesFirst(t *testing.T) {
	mapping := map[int]string{0: "Agent", 1: "Customer", 10: "Supervisor"}
	got := relabelTranscript("Speaker 1 and Speaker 10 spoke to Speaker 0", mapping)
	if got != "Customer and Supervisor spoke to Agent" {
		t.Fatalf("unexpected relabeling: %q", got)
	}
}

func TestClassifyErrors(t *testing.T) {
	cases := []struct {
		name      string
		completer *fakeCompleter
	}{
		{"model failure", &fakeCompleter{err: errors.New("boom")}},
		{"malformed json", &fakeCompleter{response: "not json at all"}},
		{"non-numeric index", &fakeCompleter{response: `{"alice": "Agent"}`}},
		{"empty mapping", &fakeCompleter{response: `{}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClassifier(tc.completer)
			if _, _, err := c.Classify(context.Background(), "**Speaker 0:** Hi", nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestClassifySampleKeepsRuneBoundaries(t *testing.T) {
	fake := &fakeCompleter{response: `{"0": "Agent"}`}
	c := NewClassifier(fake)

	transcript := "**Speaker 0:** " + strings.Repeat("é", transcriptSampleLimit)
	if _, _, err := c.Classify(context.Background(), transcript, nil); err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !utf8.ValidString(fake.prompt) {
		t.Fatal("sample sent to the model is not valid UTF-8")
	}
}
