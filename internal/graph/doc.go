// Package graph is the workflow engine: it composes named stage functions and
// router functions into an immutable directed graph and drives a run from the
// entry stage to the terminal node.
//
// The engine owns the execution loop only. After each stage it merges the
// returned partial update into the run state, asks the stage's router (or
// static edge) for the next node, and dispatches. It never interprets error
// semantics; stages encode failures in the state and routers decide where to
// go. The single exception is a stage returning a non-nil error, reserved for
// the fatal content-validation abort, which terminates the run without
// routing.
//
// Graphs are built once with a Builder and compiled into a Graph that is safe
// for concurrent use; construction happens in an explicit constructor, never
// at package init.
package graph
