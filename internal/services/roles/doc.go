// Package roles maps anonymous diarized speaker indices to semantic call
// roles (Agent, Customer, Supervisor) using a language model, and rewrites the
// transcript labels and segment list accordingly. Classification is advisory:
// callers fall back to the numbered labels when it fails.
package roles
