// Package agents implements the pipeline stages (intake, transcription,
// summarization, scoring, routing, error handling), the router functions
// evaluated between them, and the Pipeline that wires both into a compiled
// workflow graph.
//
// Stages follow a strict contract: each one catches its own collaborator
// failures and encodes them as (error, error kind) fields in the returned
// partial update, so nothing escapes into the engine. The single exception is
// the fatal content-validation abort, which is raised as a graph.ErrAborted
// error and terminates the run without touching the retry bookkeeping.
package agents
