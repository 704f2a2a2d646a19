// Command callgrade grades recorded call-center conversations. It accepts an
// audio recording or a text transcript, runs the fixed transcription,
// summarization, and rubric-scoring pipeline, and prints a grading report or
// the raw run state as JSON.
package main
