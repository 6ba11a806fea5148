package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/twoway/pkg/domain"
)

// LogHooks logs every lifecycle event at debug level (failures at warn).
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceStart: func(ctx context.Context, e *domain.TraceEvent) {
			logger.Debug("Trace Start", "trace", e.TraceID, "word", e.Word)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			o := e.Observation
			logger.Debug("Step",
				"trace", e.TraceID,
				"step", o.Step,
				"from", o.PreviousState,
				"symbol", o.SymbolRead,
				"to", o.State,
				"move", o.Direction,
				"head", o.Head,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.Debug("Halt", "trace", e.TraceID, "word", e.Word, "verdict", e.Outcome.Verdict, "steps", e.Outcome.Steps)
		},
		OnFail: func(ctx context.Context, e *domain.FailEvent) {
			logger.Warn("Trace Failed", "trace", e.TraceID, "word", e.Word, "steps", e.Steps, "err", e.Err)
		},
	}
}
