package workflow

import (
	"context"
	"fmt"
	"strings"
)

// Retriever fetches the chunks most relevant to a query. Implementations
// may return fewer than k chunks, including none, without error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Chunk, error)
}

// Completer is a text-in, text-out model call. Generation and validation
// are both Completers so the pipeline can be exercised with deterministic
// stubs in tests.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// retrieve populates Context and Sources from the retrieval backend.
// Zero results is not an error: downstream steps handle empty context.
func (e *Engine) retrieve(ctx context.Context, s *State) error {
	chunks, err := e.retriever.Retrieve(ctx, s.Question, e.retrievalK)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}

	s.Context = chunks
	s.Sources = citations(chunks)
	return nil
}

// citations derives deduplicated citation strings from chunks, preserving
// first-seen order so identical inputs always format identically.
func citations(chunks []Chunk) []string {
	seen := make(map[string]bool, len(chunks))
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		cite := c.Citation()
		if seen[cite] {
			continue
		}
		seen[cite] = true
		out = append(out, cite)
	}
	return out
}

// generate replaces Answer with a fresh completion grounded in Context.
func (e *Engine) generate(ctx context.Context, s *State) error {
	answer, err := e.generator.Complete(ctx, generatorPrompt(s))
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	s.Answer = answer
	return nil
}

// validate judges the current answer and records the verdict. The engine
// increments RetryCount when it takes the back-edge to generate, so the
// count reflects regeneration attempts actually performed.
func (e *Engine) validate(ctx context.Context, s *State) error {
	verdict, err := e.validator.Complete(ctx, validatorPrompt(s))
	if err != nil {
		return fmt.Errorf("validating answer: %w", err)
	}

	s.IsValid = parseVerdict(verdict)
	s.ValidationFeedback = verdict
	return nil
}

// parseVerdict interprets the validator's raw text. Only a response whose
// trimmed, case-folded text begins with "VALID" counts as valid; anything
// else, including ambiguous text, is conservatively treated as invalid.
func parseVerdict(raw string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(raw)), "VALID")
}

const cautionNote = "*Note: This response may not fully address your question. Please verify the information.*"

// respond formats FinalResponse from the answer, the sources block, and a
// cautionary note when validation was never satisfied. It is pure and
// idempotent, and always yields a non-empty, well-formed string.
func respond(s *State) {
	answer := s.Answer
	if strings.TrimSpace(answer) == "" {
		answer = "No answer could be generated for this question."
	}

	var b strings.Builder
	b.WriteString(answer)

	if len(s.Sources) > 0 {
		b.WriteString("\n\n**Sources:**")
		for _, src := range s.Sources {
			b.WriteString("\n- ")
			b.WriteString(src)
		}
	}

	if !s.IsValid && s.RetryCount > 0 {
		b.WriteString("\n\n")
		b.WriteString(cautionNote)
	}

	s.FinalResponse = b.String()
}
