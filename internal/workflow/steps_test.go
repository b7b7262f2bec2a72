package workflow

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "plain VALID", raw: "VALID", want: true},
		{name: "lowercase valid", raw: "valid", want: true},
		{name: "padded mixed case", raw: "  Valid ", want: true},
		{name: "valid with trailing text", raw: "VALID - the answer is well grounded", want: true},
		{name: "invalid with reason", raw: "INVALID: missing detail", want: false},
		{name: "ambiguous text", raw: "Not sure", want: false},
		{name: "empty response", raw: "", want: false},
		{name: "whitespace only", raw: "   \n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseVerdict(tt.raw); got != tt.want {
				t.Errorf("parseVerdict(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCitations_DedupFirstSeen(t *testing.T) {
	chunks := []Chunk{
		{Text: "a", Source: "policy.pdf", Page: 2},
		{Text: "b", Source: "manual.pdf", Page: 7},
		{Text: "c", Source: "policy.pdf", Page: 2}, // duplicate (source, page)
		{Text: "d", Source: "policy.pdf", Page: 3},
	}

	want := []string{
		"policy.pdf (page 2)",
		"manual.pdf (page 7)",
		"policy.pdf (page 3)",
	}

	got := citations(chunks)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("citations() mismatch (-want +got):\n%s", diff)
	}
}

func TestCitations_Empty(t *testing.T) {
	got := citations(nil)
	if len(got) != 0 {
		t.Errorf("citations(nil) = %v, want empty", got)
	}
}

func TestCitations_StableAcrossRuns(t *testing.T) {
	chunks := []Chunk{
		{Source: "b.pdf", Page: 1},
		{Source: "a.pdf", Page: 1},
		{Source: "b.pdf", Page: 1},
	}

	first := citations(chunks)
	for range 5 {
		if diff := cmp.Diff(first, citations(chunks)); diff != "" {
			t.Fatalf("citations() not stable (-first +later):\n%s", diff)
		}
	}
}

func TestGeneratorPrompt(t *testing.T) {
	s := &State{
		Question: "What is the refund policy?",
		Context: []Chunk{
			{Text: "Refunds within 30 days.", Source: "policy.pdf", Page: 2},
		},
	}

	prompt := generatorPrompt(s)

	for _, want := range []string{
		"Use ONLY the information from the context",
		"[Source: policy.pdf, Page 2]",
		"Refunds within 30 days.",
		"Question: What is the refund policy?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("generatorPrompt() missing %q:\n%s", want, prompt)
		}
	}
}

func TestGeneratorPrompt_EmptyContext(t *testing.T) {
	s := &State{Question: "anything?"}

	prompt := generatorPrompt(s)
	if !strings.Contains(prompt, "Question: anything?") {
		t.Errorf("generatorPrompt() with empty context missing question:\n%s", prompt)
	}
	// The grounding instruction still applies so the model reports missing
	// information instead of inventing an answer.
	if !strings.Contains(prompt, "doesn't contain enough information") {
		t.Errorf("generatorPrompt() missing insufficiency instruction:\n%s", prompt)
	}
}

func TestValidatorPrompt(t *testing.T) {
	s := &State{
		Question: "What is the refund policy?",
		Context:  []Chunk{{Text: "Refunds within 30 days.", Source: "policy.pdf", Page: 2}},
		Answer:   "Refunds are allowed within 30 days.",
	}

	prompt := validatorPrompt(s)

	for _, want := range []string{
		"Groundedness",
		"Refunds within 30 days.",
		"Answer: Refunds are allowed within 30 days.",
		`"INVALID: [reason]"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("validatorPrompt() missing %q:\n%s", want, prompt)
		}
	}
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{
			name: "answer with sources",
			state: State{
				Answer:  "Refunds are allowed within 30 days.",
				Sources: []string{"policy.pdf (page 2)"},
				IsValid: true,
			},
			want: "Refunds are allowed within 30 days.\n\n**Sources:**\n- policy.pdf (page 2)",
		},
		{
			name: "no sources omits block",
			state: State{
				Answer:  "I don't have enough information.",
				IsValid: true,
			},
			want: "I don't have enough information.",
		},
		{
			name: "exhausted retries append caution",
			state: State{
				Answer:     "Best guess.",
				Sources:    []string{"notes.md (page 1)"},
				IsValid:    false,
				RetryCount: 2,
			},
			want: "Best guess.\n\n**Sources:**\n- notes.md (page 1)\n\n" + cautionNote,
		},
		{
			name: "invalid without retries omits caution",
			state: State{
				Answer:     "Answer.",
				IsValid:    false,
				RetryCount: 0,
			},
			want: "Answer.",
		},
		{
			name:  "empty answer still yields text",
			state: State{IsValid: true},
			want:  "No answer could be generated for this question.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			respond(&s)
			if s.FinalResponse != tt.want {
				t.Errorf("respond() = %q, want %q", s.FinalResponse, tt.want)
			}
			if s.FinalResponse == "" {
				t.Error("respond() produced empty FinalResponse")
			}
		})
	}
}

func TestRespond_Idempotent(t *testing.T) {
	s := &State{
		Answer:     "Stable answer.",
		Sources:    []string{"a.pdf (page 1)", "b.pdf (page 2)"},
		IsValid:    false,
		RetryCount: 3,
	}

	respond(s)
	first := s.FinalResponse
	respond(s)

	if s.FinalResponse != first {
		t.Errorf("respond() not idempotent: %q then %q", first, s.FinalResponse)
	}
}
