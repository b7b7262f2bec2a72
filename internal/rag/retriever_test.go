package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shyam-thakkar/rag-chatbot/internal/knowledge"
	"github.com/shyam-thakkar/rag-chatbot/internal/workflow"
)

type mockSearchStore struct {
	results   []knowledge.Result
	err       error
	lastQuery string
	lastOpts  int
}

func (m *mockSearchStore) Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error) {
	m.lastQuery = query
	m.lastOpts = len(opts)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func TestRetrieve(t *testing.T) {
	store := &mockSearchStore{results: []knowledge.Result{
		{
			Chunk:      knowledge.Chunk{ID: "c1", Content: "refunds text", Source: "policy.pdf", Page: 2, Section: "Refunds", Index: 7},
			Similarity: 0.9,
		},
		{
			Chunk:      knowledge.Chunk{ID: "c2", Content: "shipping text", Source: "faq.md", Page: 1},
			Similarity: 0.7,
		},
	}}

	got, err := NewRetriever(store, nil).Retrieve(context.Background(), "refund policy", 4)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	want := []workflow.Chunk{
		{Text: "refunds text", Source: "policy.pdf", Page: 2, Section: "Refunds", Index: 7},
		{Text: "shipping text", Source: "faq.md", Page: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Retrieve() mismatch (-want +got):\n%s", diff)
	}
	if store.lastQuery != "refund policy" {
		t.Errorf("search query = %q, want the question text", store.lastQuery)
	}
}

func TestRetrieveEmptyStore(t *testing.T) {
	got, err := NewRetriever(&mockSearchStore{}, nil).Retrieve(context.Background(), "anything", 4)
	if err != nil {
		t.Fatalf("Retrieve() error = %v, empty store must not error", err)
	}
	if len(got) != 0 {
		t.Errorf("Retrieve() = %v, want empty", got)
	}
}

func TestRetrieveError(t *testing.T) {
	searchErr := errors.New("vector search: timeout")
	_, err := NewRetriever(&mockSearchStore{err: searchErr}, nil).Retrieve(context.Background(), "q", 4)
	if !errors.Is(err, searchErr) {
		t.Fatalf("Retrieve() error = %v, want wrapped search error", err)
	}
}
