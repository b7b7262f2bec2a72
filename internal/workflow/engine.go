package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrEmptyQuestion is returned when a query is blank. The question is
// rejected before the state machine starts.
var ErrEmptyQuestion = errors.New("question must not be empty")

// Config bounds the work an Engine performs per query.
type Config struct {
	// MaxRetries is the number of regeneration attempts after a failed
	// validation. Generate runs at most MaxRetries+1 times per query.
	MaxRetries int

	// RetrievalK is the number of chunks requested from the retriever.
	RetrievalK int
}

// Result is what a completed query returns to the caller.
type Result struct {
	FinalResponse      string
	Sources            []string
	Answer             string
	IsValid            bool
	RetryCount         int
	ValidationFeedback string
}

// Engine drives one question through retrieve, generate, validate and
// respond. Capabilities are injected; the engine holds no ambient state
// and is safe for concurrent use, one State per running query.
type Engine struct {
	retriever  Retriever
	generator  Completer
	validator  Completer
	maxRetries int
	retrievalK int
	logger     *slog.Logger
}

// New creates an Engine with the given capabilities.
// Generator and validator may be the same Completer.
func New(retriever Retriever, generator, validator Completer, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		retriever:  retriever,
		generator:  generator,
		validator:  validator,
		maxRetries: cfg.MaxRetries,
		retrievalK: cfg.RetrievalK,
		logger:     logger,
	}
}

// Answer runs the workflow to completion for one question.
//
// Backend failures from any step propagate to the caller; no FinalResponse
// is fabricated from a broken step. Validation failures, by contrast, are
// retried up to MaxRetries and then answered anyway with a cautionary note.
func (e *Engine) Answer(ctx context.Context, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	s := newState(question)

	for current := nodeRetrieve; current != nodeDone; {
		switch current {
		case nodeRetrieve:
			if err := e.retrieve(ctx, s); err != nil {
				return nil, err
			}
			e.logger.Debug("context retrieved",
				"chunks", len(s.Context), "sources", len(s.Sources))
			current = nodeGenerate

		case nodeGenerate:
			if err := e.generate(ctx, s); err != nil {
				return nil, err
			}
			current = nodeValidate

		case nodeValidate:
			if err := e.validate(ctx, s); err != nil {
				return nil, err
			}
			next := nextAfterValidate(s.IsValid, s.RetryCount, e.maxRetries)
			if next == nodeGenerate {
				s.RetryCount++
				e.logger.Debug("answer failed validation, regenerating",
					"retry", s.RetryCount, "max_retries", e.maxRetries,
					"feedback", s.ValidationFeedback)
			} else if !s.IsValid {
				e.logger.Warn("validation retries exhausted, responding anyway",
					"retries", s.RetryCount)
			}
			current = next

		case nodeRespond:
			respond(s)
			current = nodeDone
		}
	}

	return &Result{
		FinalResponse:      s.FinalResponse,
		Sources:            s.Sources,
		Answer:             s.Answer,
		IsValid:            s.IsValid,
		RetryCount:         s.RetryCount,
		ValidationFeedback: s.ValidationFeedback,
	}, nil
}
