// Package state defines the call-processing run record, the sparse partial
// update applied after each pipeline stage, and the merge semantics that
// combine them. All pipeline stages communicate exclusively through these
// types; nothing here performs I/O.
package state
