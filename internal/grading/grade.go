package grading

// maxPossiblePoints is the fixed percentage denominator. The rubric carries 21
// scored items, but the historical normalization used 95 (19 items x 5) and
// downstream grade thresholds were calibrated against it, so it stays at 95.
const maxPossiblePoints = 95

// OverallGrade converts a percentage score to a letter grade using inclusive
// lower bounds: 90 A, 80 B, 70 C, 60 D, otherwise F.
func OverallGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// TotalScore sums every rubric item score and derives the percentage against
// the fixed denominator.
func TotalScore(q *QualityScores) (int, float64) {
	total := 0
	for _, item := range q.Items() {
		total += item.Score
	}
	percentage := float64(total) / maxPossiblePoints * 100
	return total, percentage
}

// Finalize fills the aggregate fields of q from its item scores. The grade is
// always recomputed locally so it cannot drift from the percentage.
func Finalize(q *QualityScores) {
	total, percentage := TotalScore(q)
	q.TotalPoints = total
	q.MaxPossiblePoints = maxPossiblePoints
	q.PercentageScore = percentage
	q.OverallGrade = OverallGrade(percentage)
}
