package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTraceStart EventType = "trace_start"
	EventStep       EventType = "step"
	EventHalt       EventType = "halt"
	EventFail       EventType = "fail"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TraceID   string    `json:"trace_id"`
}

// TraceEvent is emitted when a trace takes its first step.
type TraceEvent struct {
	EventBase
	Word string `json:"word"`
}

// StepEvent wraps the observation of a single step.
type StepEvent struct {
	EventBase
	Observation StepObservation `json:"observation"`
}

// HaltEvent is emitted once a trace reaches a verdict.
type HaltEvent struct {
	EventBase
	Word    string  `json:"word"`
	Outcome Outcome `json:"outcome"`
}

// FailEvent is emitted once a trace stops on an execution error.
type FailEvent struct {
	EventBase
	Word  string `json:"word"`
	Steps int    `json:"steps"`
	Err   error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// All fields are optional.
type LifecycleHooks struct {
	OnTraceStart func(context.Context, *TraceEvent)
	OnStep       func(context.Context, *StepEvent)
	OnHalt       func(context.Context, *HaltEvent)
	OnFail       func(context.Context, *FailEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTraceStart: chain(h.OnTraceStart, other.OnTraceStart),
		OnStep:       chain(h.OnStep, other.OnStep),
		OnHalt:       chain(h.OnHalt, other.OnHalt),
		OnFail:       chain(h.OnFail, other.OnFail),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
