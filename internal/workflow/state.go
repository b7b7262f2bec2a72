// Package workflow implements the question-answering pipeline:
// retrieve relevant chunks, generate an answer grounded in them, validate
// the answer, regenerate up to a bounded number of retries, and format the
// final response.
//
// The pipeline is an explicit finite-state loop over a small node enum.
// Model-backed capabilities (retrieval, generation, validation) are
// injected as interfaces so the control flow is deterministic under test.
package workflow

import "fmt"

// Chunk is a retrieved span of document text with its source metadata.
// Chunks are immutable once produced by the retrieval backend.
type Chunk struct {
	Text    string
	Source  string
	Page    int
	Section string
	Index   int
}

// Citation returns the human-readable citation for the chunk,
// e.g. "policy.pdf (page 2)".
func (c Chunk) Citation() string {
	return fmt.Sprintf("%s (page %d)", c.Source, c.Page)
}

// State is the single record threaded through every step of one query.
// A fresh State is created per question and discarded after the terminal
// step; it is never shared between queries.
type State struct {
	// Question is the user's query. Immutable once set.
	Question string

	// Context holds the retrieved chunks. Set once by the retrieve step.
	Context []Chunk

	// Answer is overwritten on every generation attempt.
	Answer string

	// IsValid and ValidationFeedback are overwritten on every validation
	// attempt. ValidationFeedback preserves the validator's raw text.
	IsValid            bool
	ValidationFeedback string

	// RetryCount counts regeneration attempts actually performed. It is
	// incremented on the validate-to-generate back-edge, never past
	// MaxRetries.
	RetryCount int

	// Sources holds deduplicated citations derived from Context, in
	// first-seen order. Set once by the retrieve step.
	Sources []string

	// FinalResponse is set exactly once, by the respond step.
	FinalResponse string
}

// newState constructs the initial state for a question. All other fields
// start zeroed: no context, empty answer, IsValid false, RetryCount 0.
func newState(question string) *State {
	return &State{Question: question}
}
