package grading

// ScoreLevel is the qualitative band attached to a rubric item score.
type ScoreLevel string

const (
	LevelExcellent        ScoreLevel = "excellent"         // 5 points
	LevelGood             ScoreLevel = "good"              // 4 points
	LevelSatisfactory     ScoreLevel = "satisfactory"      // 3 points
	LevelNeedsImprovement ScoreLevel = "needs_improvement" // 2 points
	LevelPoor             ScoreLevel = "poor"              // 1 point
)

// RubricScore is a single scored rubric item.
type RubricScore struct {
	Score    int        `json:"score"`
	Level    ScoreLevel `json:"level"`
	Evidence string     `json:"evidence"`
	Feedback string     `json:"feedback"`
}

// GreetingAndOpening covers how the agent starts the call.
type GreetingAndOpening struct {
	ProperGreeting   RubricScore `json:"proper_greeting"`
	VerifiedCustomer RubricScore `json:"verified_customer"`
	SetExpectations  RubricScore `json:"set_expectations"`
}

// CommunicationSkills covers verbal communication quality.
type CommunicationSkills struct {
	Clarity         RubricScore `json:"clarity"`
	Tone            RubricScore `json:"tone"`
	ActiveListening RubricScore `json:"active_listening"`
	Empathy         RubricScore `json:"empathy"`
	AvoidedJargon   RubricScore `json:"avoided_jargon"`
}

// ProblemResolution covers how well the customer issue was addressed.
type ProblemResolution struct {
	Understanding       RubricScore `json:"understanding"`
	Knowledge           RubricScore `json:"knowledge"`
	SolutionQuality     RubricScore `json:"solution_quality"`
	FirstCallResolution RubricScore `json:"first_call_resolution"`
	ProactiveHelp       RubricScore `json:"proactive_help"`
}

// Professionalism covers professional conduct throughout the call.
type Professionalism struct {
	Courtesy        RubricScore `json:"courtesy"`
	Patience        RubricScore `json:"patience"`
	Ownership       RubricScore `json:"ownership"`
	Confidentiality RubricScore `json:"confidentiality"`
}

// CallClosing covers how the agent ended the call.
type CallClosing struct {
	Summarized        RubricScore `json:"summarized"`
	NextSteps         RubricScore `json:"next_steps"`
	SatisfactionCheck RubricScore `json:"satisfaction_check"`
	ProperClosing     RubricScore `json:"proper_closing"`
}

// QualityScores is the complete quality assessment for a call.
type QualityScores struct {
	Greeting        GreetingAndOpening  `json:"greeting"`
	Communication   CommunicationSkills `json:"communication"`
	Resolution      ProblemResolution   `json:"resolution"`
	Professionalism Professionalism     `json:"professionalism"`
	Closing         CallClosing         `json:"closing"`

	TotalPoints       int     `json:"total_points"`
	MaxPossiblePoints int     `json:"max_possible_points"`
	PercentageScore   float64 `json:"percentage_score"`

	OverallGrade        string   `json:"overall_grade"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`

	ComplianceIssues      []string `json:"compliance_issues"`
	EscalationRecommended bool     `json:"escalation_recommended"`
}

// LabeledItem pairs one rubric score with its category and item names for
// display.
type LabeledItem struct {
	Category string
	Name     string
	RubricScore
}

// LabeledItems returns every rubric score with display labels, in the same
// order as Items.
func (q *QualityScores) LabeledItems() []LabeledItem {
	items := q.Items()
	labels := []struct{ category, name string }{
		{"Greeting", "Proper greeting"},
		{"Greeting", "Verified customer"},
		{"Greeting", "Set expectations"},
		{"Communication", "Clarity"},
		{"Communication", "Tone"},
		{"Communication", "Active listening"},
		{"Communication", "Empathy"},
		{"Communication", "Avoided jargon"},
		{"Resolution", "Understanding"},
		{"Resolution", "Knowledge"},
		{"Resolution", "Solution quality"},
		{"Resolution", "First call resolution"},
		{"Resolution", "Proactive help"},
		{"Professionalism", "Courtesy"},
		{"Professionalism", "Patience"},
		{"Professionalism", "Ownership"},
		{"Professionalism", "Confidentiality"},
		{"Closing", "Summarized"},
		{"Closing", "Next steps"},
		{"Closing", "Satisfaction check"},
		{"Closing", "Proper closing"},
	}
	labeled := make([]LabeledItem, len(items))
	for i, item := range items {
		labeled[i] = LabeledItem{
			Category:    labels[i].category,
			Name:        labels[i].name,
			RubricScore: item,
		}
	}
	return labeled
}

// Items returns every individual rubric score in a fixed category order.
func (q *QualityScores) Items() []RubricScore {
	return []RubricScore{
		q.Greeting.ProperGreeting,
		q.Greeting.VerifiedCustomer,
		q.Greeting.SetExpectations,
		q.Communication.Clarity,
		q.Communication.Tone,
		q.Communication.ActiveListening,
		q.Communication.Empathy,
		q.Communication.AvoidedJargon,
		q.Resolution.Understanding,
		q.Resolution.Knowledge,
		q.Resolution.SolutionQuality,
		q.Resolution.FirstCallResolution,
		q.Resolution.ProactiveHelp,
		q.Professionalism.Courtesy,
		q.Professionalism.Patience,
		q.Professionalism.Ownership,
		q.Professionalism.Confidentiality,
		q.Closing.Summarized,
		q.Closing.NextSteps,
		q.Closing.SatisfactionCheck,
		q.Closing.ProperClosing,
	}
}
