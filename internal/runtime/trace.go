package runtime

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/google/uuid"
)

// Trace is the mutable configuration of one word evaluation.
// It is owned by a single caller and is never reused after it finishes.
type Trace struct {
	id     string
	engine *Engine
	word   string
	tape   []domain.Symbol

	state     string
	previous  string
	head      int
	direction domain.Direction
	steps     int

	status  domain.TraceStatus
	verdict domain.Verdict
	err     error
	history []domain.StepObservation
}

// NewTrace prepares word for stepping. The head starts on the left marker.
func (e *Engine) NewTrace(word string) *Trace {
	return &Trace{
		id:     uuid.NewString(),
		engine: e,
		word:   word,
		tape:   domain.Tape(word),
		state:  e.machine.Start(),
		status: domain.StatusReady,
	}
}

// Step applies exactly one transition.
// Stepping a halted or failed trace returns domain.ErrTraceFinished.
func (t *Trace) Step(ctx context.Context) (domain.StepObservation, error) {
	switch t.status {
	case domain.StatusHalted, domain.StatusFailed:
		return domain.StepObservation{}, domain.ErrTraceFinished
	case domain.StatusReady:
		t.status = domain.StatusRunning
		t.engine.logger.Debug("trace started", "trace", t.id, "word", t.word)
		if t.engine.hooks.OnTraceStart != nil {
			t.engine.hooks.OnTraceStart(ctx, &domain.TraceEvent{
				EventBase: t.event(domain.EventTraceStart),
				Word:      t.word,
			})
		}
	}

	m := t.engine.machine
	if t.steps >= t.engine.maxSteps {
		return t.fail(ctx, &domain.ExecutionError{
			Kind:  domain.StepLimitExceeded,
			State: t.state,
			Head:  t.head,
			Steps: t.steps,
		})
	}
	if t.head < 0 || t.head >= len(t.tape) {
		return t.fail(ctx, &domain.ExecutionError{
			Kind:  domain.HeadOutOfBounds,
			State: t.state,
			Head:  t.head,
			Steps: t.steps,
		})
	}

	symbol := t.tape[t.head]
	if !m.Reads(symbol) {
		return t.fail(ctx, &domain.ExecutionError{
			Kind:   domain.UnknownTapeSymbol,
			State:  t.state,
			Symbol: symbol,
			Head:   t.head,
			Steps:  t.steps,
		})
	}

	target, err := m.Lookup(t.state, symbol)
	if err != nil {
		var ee *domain.ExecutionError
		if errors.As(err, &ee) {
			ee.Head, ee.Steps = t.head, t.steps
		}
		return t.fail(ctx, err)
	}

	next := target.Next
	if next == domain.NoNextState && m.IsAbsorbing(t.state) {
		next = t.state
	}

	t.previous, t.state = t.state, next
	t.head += target.Move.Delta()
	t.direction = target.Move
	t.steps++

	obs := domain.StepObservation{
		Step:          t.steps,
		State:         t.state,
		PreviousState: t.previous,
		Head:          t.head,
		Direction:     t.direction,
		SymbolRead:    symbol,
	}

	// Absorbing states keep stepping until they consume a marker.
	if m.IsAbsorbing(t.state) && symbol.IsMarker() {
		t.status = domain.StatusHalted
		t.verdict = domain.VerdictRejected
		if t.state == m.Accept() {
			t.verdict = domain.VerdictAccepted
		}
		obs.Halted = true
		obs.Verdict = t.verdict
	}
	t.history = append(t.history, obs)

	t.engine.logger.Debug("step",
		"trace", t.id,
		"state", obs.PreviousState,
		"symbol", symbol,
		"next", obs.State,
		"head", obs.Head,
	)
	if t.engine.hooks.OnStep != nil {
		t.engine.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase:   t.event(domain.EventStep),
			Observation: obs,
		})
	}

	if obs.Halted {
		t.engine.logger.Info("trace halted", "trace", t.id, "word", t.word, "verdict", t.verdict, "steps", t.steps)
		if t.engine.hooks.OnHalt != nil {
			t.engine.hooks.OnHalt(ctx, &domain.HaltEvent{
				EventBase: t.event(domain.EventHalt),
				Word:      t.word,
				Outcome:   t.Outcome(),
			})
		}
	}
	return obs, nil
}

func (t *Trace) fail(ctx context.Context, err error) (domain.StepObservation, error) {
	t.status = domain.StatusFailed
	t.verdict = domain.VerdictError
	t.err = err

	t.engine.logger.Warn("trace failed", "trace", t.id, "word", t.word, "steps", t.steps, "error", err)
	if t.engine.hooks.OnFail != nil {
		t.engine.hooks.OnFail(ctx, &domain.FailEvent{
			EventBase: t.event(domain.EventFail),
			Word:      t.word,
			Steps:     t.steps,
			Err:       err,
		})
	}
	return domain.StepObservation{}, err
}

func (t *Trace) event(typ domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      typ,
		TraceID:   t.id,
	}
}

// ID is the correlation ID carried by the trace's events and logs.
func (t *Trace) ID() string { return t.id }

func (t *Trace) Word() string                { return t.word }
func (t *Trace) Status() domain.TraceStatus  { return t.status }
func (t *Trace) State() string               { return t.state }
func (t *Trace) PreviousState() string       { return t.previous }
func (t *Trace) Head() int                   { return t.head }
func (t *Trace) Direction() domain.Direction { return t.direction }
func (t *Trace) Steps() int                  { return t.steps }
func (t *Trace) Err() error                  { return t.err }
func (t *Trace) Tape() []domain.Symbol       { return slices.Clone(t.tape) }
func (t *Trace) History() []domain.StepObservation {
	return slices.Clone(t.history)
}

// Finished reports whether the trace halted or failed.
func (t *Trace) Finished() bool {
	return t.status == domain.StatusHalted || t.status == domain.StatusFailed
}

// Accepted reports whether the trace halted in the accept state.
func (t *Trace) Accepted() bool {
	return t.verdict == domain.VerdictAccepted
}

// Snapshot captures the current configuration.
func (t *Trace) Snapshot() domain.TraceSnapshot {
	snap := domain.TraceSnapshot{
		ID:            t.id,
		Word:          t.word,
		Status:        t.status,
		State:         t.state,
		PreviousState: t.previous,
		Head:          t.head,
		Tape:          t.Tape(),
		Outcome:       t.Outcome(),
	}
	if t.err != nil {
		snap.Error = t.err.Error()
	}
	return snap
}

// Outcome returns the verdict so far and the number of steps taken.
func (t *Trace) Outcome() domain.Outcome {
	return domain.Outcome{Verdict: t.verdict, Steps: t.steps}
}
