package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"callgrade/internal/agents"
	"callgrade/internal/state"
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
	ansiRed   = "\x1b[31m"
)

var stageLabels = map[string]string{
	agents.StageIntake:       "Validating input",
	agents.StageTranscribe:   "Transcribing audio",
	agents.StageSummarize:    "Summarizing call",
	agents.StageScore:        "Scoring against rubric",
	agents.StageRouting:      "Resolving outcome",
	agents.StageErrorHandler: "Recording failure",
}

func renderProgress(out io.Writer, node string, s *state.CallState) {
	label, ok := stageLabels[node]
	if !ok {
		label = node
	}
	marker := "done"
	if s.Error != "" {
		marker = "failed"
	} else if s.Status == state.StatusRetrying {
		marker = "retrying"
	}
	fmt.Fprintf(out, "%-26s [%s]\n", label+"...", marker)
}

func renderReport(out io.Writer, s *state.CallState, passingThreshold float64, showTranscript bool) {
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Call Grading Report", colorize) {
		fmt.Fprintln(out, line)
	}

	rows := [][]string{
		{"File", s.InputFileName},
		{"Run ID", s.RunID},
		{"Status", string(s.Status)},
	}
	if s.NumSpeakers > 0 {
		rows = append(rows, []string{"Speakers", fmt.Sprintf("%d", s.NumSpeakers)})
	}
	if s.TranscriptionLanguage != "" {
		rows = append(rows, []string{"Language", s.TranscriptionLanguage})
	}
	if s.Summary != nil {
		rows = append(rows,
			[]string{"Category", s.Summary.CallCategory},
			[]string{"Sentiment", s.Summary.CustomerSentiment},
			[]string{"Resolution", string(s.ResolutionStatus)},
		)
	}
	if s.QualityScores != nil {
		q := s.QualityScores
		verdict := "pass"
		if q.PercentageScore < passingThreshold {
			verdict = "fail"
		}
		rows = append(rows,
			[]string{"Score", fmt.Sprintf("%d/%d (%.1f%%)", q.TotalPoints, q.MaxPossiblePoints, q.PercentageScore)},
			[]string{"Grade", fmt.Sprintf("%s (%s)", q.OverallGrade, verdict)},
			[]string{"Escalation", yesNo(q.EscalationRecommended)},
		)
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

	if s.Summary != nil && s.Summary.BriefSummary != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Summary:", s.Summary.BriefSummary)
	}

	if s.QualityScores != nil {
		renderRubric(out, s, colorize)
	}

	if s.Status == state.StatusFailed {
		renderFailure(out, s, colorize)
	}

	if showTranscript && s.Transcript != "" {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Transcript", colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, strings.TrimSpace(s.Transcript))
	}
}

func renderRubric(out io.Writer, s *state.CallState, colorize bool) {
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Rubric Scores", colorize) {
		fmt.Fprintln(out, line)
	}

	rows := make([][]string, 0, 21)
	for _, item := range s.QualityScores.LabeledItems() {
		rows = append(rows, []string{
			item.Category,
			item.Name,
			fmt.Sprintf("%d/5", item.Score),
			string(item.Level),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Category", "Item", "Score", "Level"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))

	if len(s.QualityScores.Strengths) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Strengths:")
		for _, item := range s.QualityScores.Strengths {
			fmt.Fprintf(out, "  + %s\n", item)
		}
	}
	if len(s.QualityScores.AreasForImprovement) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Areas for improvement:")
		for _, item := range s.QualityScores.AreasForImprovement {
			fmt.Fprintf(out, "  - %s\n", item)
		}
	}
	if len(s.QualityScores.ComplianceIssues) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Compliance issues:")
		for _, item := range s.QualityScores.ComplianceIssues {
			fmt.Fprintf(out, "  ! %s\n", item)
		}
	}
}

func renderFailure(out io.Writer, s *state.CallState, colorize bool) {
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Failure", colorize) {
		fmt.Fprintln(out, line)
	}
	msg := s.Error
	if colorize {
		msg = ansiRed + msg + ansiReset
	}
	fmt.Fprintln(out, msg)
	if len(s.ErrorHistory) > 0 {
		fmt.Fprintf(out, "Attempts retried: %d\n", len(s.ErrorHistory))
	}
	if pr := s.PartialResults; pr != nil {
		fmt.Fprintf(out, "Partial results: transcript=%s summary=%s scores=%s\n",
			yesNo(pr.TranscriptAvailable), yesNo(pr.SummaryAvailable), yesNo(pr.ScoresAvailable))
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
