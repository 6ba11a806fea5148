package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/twoway/internal/runtime"
	"github.com/aretw0/twoway/internal/testutils"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_Lifecycle(t *testing.T) {
	eng := newEngine(t, testutils.ScenarioDefinition())
	ctx := context.Background()

	tr := eng.NewTrace("0")
	assert.Equal(t, domain.StatusReady, tr.Status())
	assert.Equal(t, "q0", tr.State())
	assert.Equal(t, 0, tr.Head())
	assert.Equal(t, []domain.Symbol{"-", "0", "+"}, tr.Tape())
	assert.NotEmpty(t, tr.ID())

	obs, err := tr.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, tr.Status())
	assert.False(t, obs.Halted)
	assert.Equal(t, domain.LeftMarker, obs.SymbolRead)

	obs, err = tr.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, "qA", obs.State)
	assert.False(t, obs.Halted, "accept state mid-tape keeps stepping")

	obs, err = tr.Step(ctx)
	require.NoError(t, err)
	assert.True(t, obs.Halted)
	assert.Equal(t, domain.VerdictAccepted, obs.Verdict)
	assert.Equal(t, domain.StatusHalted, tr.Status())
	assert.True(t, tr.Finished())
	assert.True(t, tr.Accepted())
	assert.Equal(t, domain.Left, tr.Direction())

	_, err = tr.Step(ctx)
	assert.ErrorIs(t, err, domain.ErrTraceFinished)
	assert.Equal(t, 3, tr.Steps(), "a finished trace does not move")
	assert.Len(t, tr.History(), 3)
}

func TestTrace_FailedIsTerminal(t *testing.T) {
	eng := newEngine(t, testutils.ScenarioDefinition())
	ctx := context.Background()

	tr := eng.NewTrace("0?")
	var err error
	for err == nil {
		_, err = tr.Step(ctx)
	}

	kind, ok := domain.ExecutionKindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.UnknownTapeSymbol, kind)
	assert.Equal(t, domain.StatusFailed, tr.Status())
	assert.Equal(t, err, tr.Err())

	_, err = tr.Step(ctx)
	assert.ErrorIs(t, err, domain.ErrTraceFinished)
}

func TestTrace_NoNextStateStays(t *testing.T) {
	def := testutils.ScenarioDefinition()
	for i, tr := range def.Transitions {
		if tr.From == "qA" {
			def.Transitions[i].To = domain.NoNextState
		}
	}
	eng := newEngine(t, def)

	history, outcome, err := eng.Trace(context.Background(), "00")
	require.NoError(t, err)
	assert.True(t, outcome.Accepted())
	for _, obs := range history[1:] {
		assert.Equal(t, "qA", obs.State)
	}
}

func TestTrace_Hooks(t *testing.T) {
	var (
		started []string
		steps   []int
		halted  []domain.Outcome
		failed  []error
		ids     = map[string]bool{}
	)
	hooks := domain.LifecycleHooks{
		OnTraceStart: func(_ context.Context, e *domain.TraceEvent) {
			started = append(started, e.Word)
			ids[e.TraceID] = true
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			steps = append(steps, e.Observation.Step)
			ids[e.TraceID] = true
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			halted = append(halted, e.Outcome)
		},
		OnFail: func(_ context.Context, e *domain.FailEvent) {
			failed = append(failed, e.Err)
		},
	}

	eng := newEngine(t, testutils.ScenarioDefinition(), runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	tr := eng.NewTrace("1")
	_, _ = tr.Step(ctx)
	assert.Equal(t, []string{"1"}, started, "trace start fires on the first step")

	for !tr.Finished() {
		_, err := tr.Step(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{1, 2, 3}, steps)
	assert.Equal(t, []domain.Outcome{{Verdict: domain.VerdictRejected, Steps: 3}}, halted)
	assert.Empty(t, failed)
	assert.Equal(t, map[string]bool{tr.ID(): true}, ids)

	_, err := eng.Evaluate(ctx, "x")
	require.Error(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, err, failed[0])
}

func TestTrace_FreshPerWord(t *testing.T) {
	eng := newEngine(t, testutils.ScenarioDefinition())

	a := eng.NewTrace("0")
	b := eng.NewTrace("0")
	assert.NotEqual(t, a.ID(), b.ID())

	_, err := a.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, b.Status())
}

func TestTrace_Snapshot(t *testing.T) {
	eng := newEngine(t, testutils.ScenarioDefinition())
	tr := eng.NewTrace("02")

	snap := tr.Snapshot()
	assert.Equal(t, domain.StatusReady, snap.Status)
	assert.Equal(t, "q0", snap.State)
	assert.Equal(t, []domain.Symbol{"-", "0", "2", "+"}, snap.Tape)

	for !tr.Finished() {
		_, _ = tr.Step(context.Background())
	}
	snap = tr.Snapshot()
	assert.Equal(t, tr.ID(), snap.ID)
	assert.Equal(t, domain.StatusFailed, snap.Status)
	assert.Equal(t, "qA", snap.State)
	assert.Equal(t, 2, snap.Head)
	assert.Equal(t, domain.Outcome{Verdict: domain.VerdictError, Steps: 2}, snap.Outcome)
	assert.Contains(t, snap.Error, `symbol "2"`)
}
