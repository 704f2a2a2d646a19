// Package grading defines the call quality rubric, the structured summary
// record, and the deterministic aggregate calculations (total points,
// percentage, letter grade, resolution status) derived from them.
package grading
