package knowledge

import "time"

// Chunk is one indexed slice of a source document.
type Chunk struct {
	ID      string // Unique identifier
	Content string // Chunk text content
	Source  string // Originating file name
	Page    int    // 1-based page number within the source
	Section string // Optional section heading
	Index   int    // Position of the chunk within the source
}

// Result is a single search hit with its similarity score.
type Result struct {
	Chunk      Chunk
	Similarity float32 // Cosine similarity score (0-1)
}

// SourceInfo summarizes one indexed source for listing.
type SourceInfo struct {
	Source string
	Chunks int
}

// SearchOption configures search behavior using the functional options pattern.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK    int
	timeout time.Duration
}

// WithTopK sets the maximum number of results to return.
// Default is 4 if not specified.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithTimeout overrides the per-search timeout.
// Default is 10 seconds if not specified.
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:    4,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
