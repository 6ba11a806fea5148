package twoway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/twoway/internal/runtime"
	"github.com/aretw0/twoway/pkg/adapters/text"
	"github.com/aretw0/twoway/pkg/adapters/yaml"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/machine"
	"github.com/aretw0/twoway/pkg/ports"
)

// Trace is one stepwise evaluation of a word. See Engine.NewTrace.
type Trace = runtime.Trace

// Engine is the high-level entry point for the library.
// It loads and validates a machine once, then evaluates any number of words.
type Engine struct {
	runtime  *runtime.Engine
	loader   ports.DefinitionLoader
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxSteps int
	Name     string
}

var _ ports.Evaluator = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom DefinitionLoader, bypassing file detection.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxSteps bounds every trace. Non-positive values keep runtime.DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// LoaderFor picks a loader by file extension: .yaml, .yml and .json use the
// YAML loader, anything else the line-based text format.
func LoaderFor(path string) ports.DefinitionLoader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return yaml.NewLoader(path)
	default:
		return text.NewLoader(path)
	}
}

// New loads the machine at path, validates it and prepares an engine.
// If WithLoader is given, path is only used as a label and may be empty.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no custom loader is provided")
		}
		eng.loader = LoaderFor(path)
	}

	switch {
	case path != "":
		eng.Name = filepath.Base(path)
	default:
		eng.Name = eng.loader.Name()
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("machine", eng.Name)

	def, err := eng.loader.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}

	m, err := machine.Validate(def)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", eng.Name, err)
	}
	eng.logger.Debug("Machine loaded", "states", len(m.States()), "alphabet", len(m.Alphabet()))

	eng.runtime = runtime.NewEngine(m,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithMaxSteps(eng.maxSteps),
	)
	return eng, nil
}

// Machine returns the validated machine.
func (e *Engine) Machine() *machine.Machine {
	return e.runtime.Machine()
}

// MaxSteps returns the step limit applied to every trace.
func (e *Engine) MaxSteps() int {
	return e.runtime.MaxSteps()
}

// NewTrace prepares word for stepping with Trace.Step.
func (e *Engine) NewTrace(word string) *Trace {
	return e.runtime.NewTrace(word)
}

// Evaluate runs word to completion.
func (e *Engine) Evaluate(ctx context.Context, word string) (domain.Outcome, error) {
	return e.runtime.Evaluate(ctx, word)
}

// EvaluateAll evaluates each word independently and summarizes the results.
func (e *Engine) EvaluateAll(ctx context.Context, words []string) domain.Report {
	return e.runtime.EvaluateAll(ctx, words)
}

// Trace runs word and returns every observation along with the outcome.
func (e *Engine) Trace(ctx context.Context, word string) ([]domain.StepObservation, domain.Outcome, error) {
	return e.runtime.Trace(ctx, word)
}

// Inspect returns the machine definition for visualization or introspection tools.
func (e *Engine) Inspect() domain.Definition {
	return e.runtime.Inspect()
}

// Loader returns the DefinitionLoader the machine came from.
func (e *Engine) Loader() ports.DefinitionLoader {
	return e.loader
}
