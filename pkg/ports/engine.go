package ports

import (
	"context"

	"github.com/aretw0/twoway/pkg/domain"
)

// Evaluator is the engine surface used by adapters (HTTP, MCP) that serve
// one request at a time. Implementations build a fresh trace per call.
type Evaluator interface {
	// Evaluate runs a word to completion and returns its outcome.
	Evaluate(ctx context.Context, word string) (domain.Outcome, error)

	// EvaluateAll evaluates each word independently.
	EvaluateAll(ctx context.Context, words []string) domain.Report

	// Trace runs a word step by step and returns every observation,
	// along with the final outcome.
	Trace(ctx context.Context, word string) ([]domain.StepObservation, domain.Outcome, error)

	// Inspect returns the validated definition for introspection.
	Inspect() domain.Definition
}
