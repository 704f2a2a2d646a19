// Package guard judges whether a piece of text is a call-center conversation.
// Obvious cases are decided locally (length floor, transcript label
// heuristics); everything else is referred to a language model that answers
// VALID or INVALID with a reason.
package guard
