package workflow

import (
	"fmt"
	"strings"
)

const generatorInstructions = `You are a helpful assistant that answers questions based on the provided context.
Use ONLY the information from the context to answer the question.
If the context doesn't contain enough information to answer, say so clearly.
Be concise but thorough in your answer.`

const validatorInstructions = `You are a validator that checks if an answer is relevant and accurate.
Evaluate the answer against the original question and context.

Check for:
1. Relevance: Does the answer address the question?
2. Groundedness: Is the answer supported by the context?
3. Completeness: Does the answer fully address the question?

Respond with either:
- "VALID" if the answer is good
- "INVALID: [reason]" if there are issues`

// generatorPrompt builds the generation prompt from the retrieved context
// and the question. Each chunk is tagged with its source so the model can
// ground its answer.
func generatorPrompt(s *State) string {
	parts := make([]string, 0, len(s.Context))
	for _, c := range s.Context {
		parts = append(parts, fmt.Sprintf("[Source: %s, Page %d]\n%s", c.Source, c.Page, c.Text))
	}

	return fmt.Sprintf("%s\n\nContext:\n%s\n\nQuestion: %s\n\nAnswer:",
		generatorInstructions, strings.Join(parts, "\n\n"), s.Question)
}

// validatorPrompt builds the validation prompt for the current answer.
func validatorPrompt(s *State) string {
	parts := make([]string, 0, len(s.Context))
	for _, c := range s.Context {
		parts = append(parts, c.Text)
	}

	return fmt.Sprintf("%s\n\nQuestion: %s\n\nContext:\n%s\n\nAnswer: %s\n\nEvaluation:",
		validatorInstructions, s.Question, strings.Join(parts, "\n\n"), s.Answer)
}
