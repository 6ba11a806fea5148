package runtime

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/machine"
)

// DefaultMaxSteps bounds every trace unless WithMaxSteps says otherwise.
const DefaultMaxSteps = 10000

// Engine runs words against a validated machine.
// It is safe to share across goroutines; each Trace is not.
type Engine struct {
	machine  *machine.Machine
	maxSteps int
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithMaxSteps sets the step limit. Non-positive values keep the default.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine for m.
func NewEngine(m *machine.Machine, opts ...EngineOption) *Engine {
	e := &Engine{
		machine:  m,
		maxSteps: DefaultMaxSteps,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Machine returns the validated machine the engine runs.
func (e *Engine) Machine() *machine.Machine {
	return e.machine
}

// MaxSteps returns the configured step limit.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// Inspect returns the machine definition for visualization or introspection tools.
func (e *Engine) Inspect() domain.Definition {
	return e.machine.Definition()
}

// Evaluate runs word to completion and returns only the verdict.
// An execution error stops this word only; the engine stays usable.
func (e *Engine) Evaluate(ctx context.Context, word string) (domain.Outcome, error) {
	tr := e.NewTrace(word)
	for {
		obs, err := tr.Step(ctx)
		if err != nil {
			return tr.Outcome(), err
		}
		if obs.Halted {
			return tr.Outcome(), nil
		}
	}
}

// EvaluateAll evaluates each word independently, recording errors per word.
// Once ctx is done the remaining words are recorded as failed with ctx.Err().
func (e *Engine) EvaluateAll(ctx context.Context, words []string) domain.Report {
	var report domain.Report
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			report.Add(w, domain.Outcome{Verdict: domain.VerdictError}, err)
			continue
		}
		outcome, err := e.Evaluate(ctx, w)
		report.Add(w, outcome, err)
	}
	return report
}

// Trace runs word step by step and returns every observation along with the
// final outcome. Observations collected before a failure are still returned.
func (e *Engine) Trace(ctx context.Context, word string) ([]domain.StepObservation, domain.Outcome, error) {
	tr := e.NewTrace(word)
	for {
		obs, err := tr.Step(ctx)
		if err != nil {
			return tr.History(), tr.Outcome(), err
		}
		if obs.Halted {
			return tr.History(), tr.Outcome(), nil
		}
	}
}
