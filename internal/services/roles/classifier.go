package roles

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"callgrade/internal/services/llm"
	"callgrade/internal/state"
)

// transcriptSampleLimit bounds how much transcript is sent to the model.
const transcriptSampleLimit = 2000

const classifySystemPrompt = "You identify speaker roles in call center transcripts. " +
	"Respond with JSON only, mapping each speaker index to a role."

const classifyPromptTemplate = `Below is a call center conversation with numbered speakers.
Determine which role each speaker plays. Roles are typically "Agent" and
"Customer"; use "Supervisor" if a third party joins.

Transcript:
%s

Respond with a JSON object mapping speaker index to role, for example:
{"0": "Agent", "1": "Customer"}`

// JSONCompleter is the slice of the chat client the classifier needs.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Classifier assigns call roles to diarized speakers.
type Classifier struct {
	completer JSONCompleter
}

// NewClassifier constructs a classifier backed by the supplied completer.
func NewClassifier(completer JSONCompleter) *Classifier {
	return &Classifier{completer: completer}
}

var titleCaser = cases.Title(language.English)

// Classify asks the model for a speaker-to-role mapping and applies it to the
// transcript text and segment list. The inputs are never mutated; on any
// failure an error is returned and callers should keep the numbered labels.
func (c *Classifier) Classify(ctx context.Context, transcript string, segments []state.SpeakerSegment) (string, []state.SpeakerSegment, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", nil, errors.New("roles classify: empty transcript")
	}

	sample := truncate(transcript, transcriptSampleLimit)
	response, err := c.completer.CompleteJSON(ctx, classifySystemPrompt, fmt.Sprintf(classifyPromptTemplate, sample))
	if err != nil {
		return "", nil, fmt.Errorf("roles classify: %w", err)
	}

	var raw map[string]string
	if err := llm.DecodeLLMJSON(response, &raw); err != nil {
		return "", nil, fmt.Errorf("roles classify: parse mapping: %w", err)
	}
	mapping, err := normalizeMapping(raw)
	if err != nil {
		return "", nil, err
	}
	if len(mapping) == 0 {
		return "", nil, errors.New("roles classify: empty mapping")
	}

	relabeled := relabelTranscript(transcript, mapping)

	updated := make([]state.SpeakerSegment, len(segments))
	copy(updated, segments)
	for i := range updated {
		if role, ok := mapping[updated[i].Speaker]; ok {
			updated[i].Role = role
		}
	}
	return relabeled, updated, nil
}

func normalizeMapping(raw map[string]string) (map[int]string, error) {
	mapping := make(map[int]string, len(raw))
	for key, role := range raw {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("roles classify: non-numeric speaker index %q", key)
		}
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		mapping[id] = titleCaser.String(strings.ToLower(role))
	}
	return mapping, nil
}

// relabelTranscript replaces every "Speaker N" occurrence with the mapped
// role. Higher indices are replaced first so "Speaker 1" never clobbers
// "Speaker 10".
func relabelTranscript(transcript string, mapping map[int]string) string {
	ids := make([]int, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	relabeled := transcript
	for _, id := range ids {
		relabeled = strings.ReplaceAll(relabeled, fmt.Sprintf("Speaker %d", id), mapping[id])
	}
	return relabeled
}

// truncate cuts s at limit bytes without splitting a multibyte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
