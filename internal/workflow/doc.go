// Package workflow drives a grading run end to end: it stamps run context for
// logging, streams the compiled pipeline graph, and emits lifecycle log events
// for each stage execution.
package workflow
