// Package llm wraps Genkit model access behind the small surfaces the
// rest of the application needs: text completion and embeddings.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// Init initializes Genkit with the Google AI plugin. The plugin reads
// GEMINI_API_KEY from the environment.
func Init(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, fmt.Errorf("initializing genkit")
	}
	return g, nil
}

// Embedder returns the Google AI embedder for the given model name.
func Embedder(g *genkit.Genkit, model string) ai.Embedder {
	return googlegenai.GoogleAIEmbedder(g, model)
}

// Client produces text completions from a fixed model.
type Client struct {
	g         *genkit.Genkit
	modelName string
	logger    *slog.Logger
}

// NewClient creates a completion client for the given model name, e.g.
// "googleai/gemini-2.5-flash". A nil logger falls back to
// slog.Default().
func NewClient(g *genkit.Genkit, modelName string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{g: g, modelName: modelName, logger: logger}
}

// Complete sends a single prompt and returns the model's text response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, c.g,
		ai.WithModelName(c.modelName),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}

	text := resp.Text()
	c.logger.Debug("completion generated",
		"model", c.modelName, "prompt_length", len(prompt), "response_length", len(text))
	return text, nil
}
