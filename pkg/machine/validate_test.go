package machine

import (
	"errors"
	"testing"

	"github.com/aretw0/twoway/internal/testutils"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// retarget rewrites the transition leaving from on symbol.
func retarget(def *domain.Definition, from string, symbol domain.Symbol, fn func(*domain.Transition)) {
	for i := range def.Transitions {
		if def.Transitions[i].From == from && def.Transitions[i].Read == symbol {
			fn(&def.Transitions[i])
			return
		}
	}
	panic("transition not found: " + from + " " + string(symbol))
}

func drop(def *domain.Definition, from string, symbol domain.Symbol) {
	kept := def.Transitions[:0]
	for _, t := range def.Transitions {
		if t.From == from && t.Read == symbol {
			continue
		}
		kept = append(kept, t)
	}
	def.Transitions = kept
}

func TestValidate_Valid(t *testing.T) {
	def := testutils.ScenarioDefinition()

	m, err := Validate(def)
	require.NoError(t, err)

	assert.Equal(t, []string{"q0", "qA", "qR"}, m.States())
	assert.Equal(t, []domain.Symbol{"0", "1"}, m.Alphabet())
	assert.Equal(t, "q0", m.Start())
	assert.Equal(t, "qA", m.Accept())
	assert.Equal(t, "qR", m.Reject())
	assert.Equal(t, def.Transitions, m.Transitions())

	// Determinism by construction: every (state, extended symbol) resolves.
	for _, state := range m.States() {
		for _, symbol := range domain.ExtendedAlphabet(m.Alphabet()) {
			_, err := m.Lookup(state, symbol)
			assert.NoError(t, err, "lookup(%s, %s)", state, symbol)
		}
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Definition)
		kind   domain.ValidationKind
		state  string
		symbol domain.Symbol
	}{
		{
			name:   "Empty State Set",
			mutate: func(d *domain.Definition) { d.States = nil },
			kind:   domain.EmptyStateSet,
		},
		{
			name:   "Undeclared Start",
			mutate: func(d *domain.Definition) { d.Start = "s0" },
			kind:   domain.StateNotInQ,
			state:  "s0",
		},
		{
			name:   "Accept Equals Reject",
			mutate: func(d *domain.Definition) { d.Reject = "qA" },
			kind:   domain.AcceptEqualsReject,
			state:  "qA",
		},
		{
			name:   "Multi-Character Symbol",
			mutate: func(d *domain.Definition) { d.Alphabet = append(d.Alphabet, "ab") },
			kind:   domain.InvalidAlphabet,
			symbol: "ab",
		},
		{
			name:   "Marker In Alphabet",
			mutate: func(d *domain.Definition) { d.Alphabet = append(d.Alphabet, "+") },
			kind:   domain.InvalidAlphabet,
			symbol: "+",
		},
		{
			name: "Symbol Not In Alphabet",
			mutate: func(d *domain.Definition) {
				d.Transitions = append(d.Transitions, domain.Transition{From: "q0", Read: "x", To: "q0", Move: domain.Right})
			},
			kind:   domain.SymbolNotInAlphabet,
			state:  "q0",
			symbol: "x",
		},
		{
			name: "Current State Not In Q",
			mutate: func(d *domain.Definition) {
				retarget(d, "q0", "1", func(t *domain.Transition) { t.From = "q9" })
			},
			kind:   domain.StateNotInQ,
			state:  "q9",
			symbol: "1",
		},
		{
			name: "Next State Not In Q",
			mutate: func(d *domain.Definition) {
				retarget(d, "q0", "0", func(t *domain.Transition) { t.To = "qZ" })
			},
			kind:   domain.StateNotInQ,
			state:  "q0",
			symbol: "0",
		},
		{
			name: "No Next State Outside Absorbing States",
			mutate: func(d *domain.Definition) {
				retarget(d, "q0", "0", func(t *domain.Transition) { t.To = domain.NoNextState })
			},
			kind:   domain.StateNotInQ,
			state:  "q0",
			symbol: "0",
		},
		{
			name: "Accept State Leaves",
			mutate: func(d *domain.Definition) {
				retarget(d, "qA", "0", func(t *domain.Transition) { t.To = "qR" })
			},
			kind:   domain.AcceptStateHasOutgoingTransition,
			state:  "qA",
			symbol: "0",
		},
		{
			name: "Reject State Leaves",
			mutate: func(d *domain.Definition) {
				retarget(d, "qR", "1", func(t *domain.Transition) { t.To = "q0" })
			},
			kind:   domain.RejectStateHasOutgoingTransition,
			state:  "qR",
			symbol: "1",
		},
		{
			name: "Left Marker Moves Left",
			mutate: func(d *domain.Definition) {
				retarget(d, "q0", "-", func(t *domain.Transition) { t.Move = domain.Left })
			},
			kind:   domain.InvalidMarkerDirection,
			state:  "q0",
			symbol: "-",
		},
		{
			name: "Right Marker Moves Right",
			mutate: func(d *domain.Definition) {
				retarget(d, "q0", "+", func(t *domain.Transition) { t.Move = domain.Right })
			},
			kind:   domain.InvalidMarkerDirection,
			state:  "q0",
			symbol: "+",
		},
		{
			name: "Unknown Direction",
			mutate: func(d *domain.Definition) {
				retarget(d, "q0", "0", func(t *domain.Transition) { t.Move = "up" })
			},
			kind:   domain.InvalidDirection,
			state:  "q0",
			symbol: "0",
		},
		{
			name: "Reserved State Name",
			mutate: func(d *domain.Definition) {
				d.States = append(d.States, domain.NoNextState)
			},
			kind:  domain.ReservedStateName,
			state: domain.NoNextState,
		},
		{
			name:   "Missing Transition",
			mutate: func(d *domain.Definition) { drop(d, "q0", "1") },
			kind:   domain.MissingTransition,
			state:  "q0",
			symbol: "1",
		},
		{
			name: "Ambiguous Transition",
			mutate: func(d *domain.Definition) {
				d.Transitions = append(d.Transitions, domain.Transition{From: "q0", Read: "0", To: "qR", Move: domain.Right})
			},
			kind:   domain.AmbiguousTransition,
			state:  "q0",
			symbol: "0",
		},
		{
			name:   "Duplicate State Name",
			mutate: func(d *domain.Definition) { d.States = append(d.States, "qA") },
			kind:   domain.DuplicateStateName,
			state:  "qA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := testutils.ScenarioDefinition()
			tt.mutate(&def)

			m, err := Validate(def)
			require.Error(t, err)
			assert.Nil(t, m, "no partial machine on failure")
			assert.True(t, errors.Is(err, domain.ErrInvalidDefinition))

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.kind, ve.Kind, "error: %v", err)
			assert.Equal(t, tt.state, ve.State)
			assert.Equal(t, tt.symbol, ve.Symbol)
		})
	}
}

func TestValidate_NoNextStateOnAbsorbing(t *testing.T) {
	def := testutils.ScenarioDefinition()
	retarget(&def, "qA", "0", func(t *domain.Transition) { t.To = domain.NoNextState })
	retarget(&def, "qR", "+", func(t *domain.Transition) { t.To = domain.NoNextState })

	_, err := Validate(def)
	assert.NoError(t, err)
}

// A state literally named "_" would be read as "stay put" at run time, so a
// machine routing q0 -> _ -> qA must be refused instead of misjudged.
func TestValidate_SentinelIsNotAState(t *testing.T) {
	b := dsl.New().Alphabet("0").Start("q0").Accept("qA").Reject("qR")
	b.State("q0").
		On("-", "q0", domain.Right).
		On("0", domain.NoNextState, domain.Right).
		On("+", "qR", domain.Left)
	b.State(domain.NoNextState).
		On("-", "qR", domain.Right).
		On("0", "qR", domain.Right).
		On("+", "qA", domain.Left)
	b.State("qA").Absorb()
	b.State("qR").Absorb()

	_, err := Validate(b.Definition())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.ReservedStateName, ve.Kind)
	assert.Contains(t, err.Error(), `state name is reserved`)
}

func TestValidate_ReportsOffendingTransition(t *testing.T) {
	def := testutils.ScenarioDefinition()
	retarget(&def, "qA", "1", func(t *domain.Transition) { t.To = "qR" })

	_, err := Validate(def)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotNil(t, ve.Transition)
	assert.Equal(t, domain.Transition{From: "qA", Read: "1", To: "qR", Move: domain.Right}, *ve.Transition)
	assert.Contains(t, err.Error(), "accept state cannot have an outgoing transition")
	assert.Contains(t, err.Error(), "qA 1 qR right")
}

func TestValidate_SuggestsClosestState(t *testing.T) {
	def := testutils.ScenarioDefinition()
	retarget(&def, "q0", "0", func(t *domain.Transition) { t.To = "qAcc" })

	_, err := Validate(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "qA"?`)
}

func TestValidate_FailsFastInOrder(t *testing.T) {
	// A bad transition and a missing one: the transition rule is reported first.
	def := testutils.ScenarioDefinition()
	drop(&def, "q0", "1")
	retarget(&def, "qR", "0", func(t *domain.Transition) { t.To = "qA" })

	_, err := Validate(def)
	kind, ok := domain.ValidationKindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.RejectStateHasOutgoingTransition, kind)
}

func TestDiagnose_CollectsEverything(t *testing.T) {
	def := testutils.ScenarioDefinition()
	drop(&def, "q0", "1")
	retarget(&def, "qR", "0", func(t *domain.Transition) { t.To = "qA" })
	def.States = append(def.States, "q0")

	err := Diagnose(def)
	require.Error(t, err)

	var aggr *domain.AggregateError
	require.ErrorAs(t, err, &aggr)

	var kinds []domain.ValidationKind
	for _, e := range aggr.Errors {
		kind, _ := domain.ValidationKindOf(e)
		kinds = append(kinds, kind)
	}
	assert.Equal(t, []domain.ValidationKind{
		domain.RejectStateHasOutgoingTransition,
		domain.MissingTransition,
		domain.DuplicateStateName,
	}, kinds)
	assert.Contains(t, err.Error(), "3 validation errors")
}

func TestDiagnose_Valid(t *testing.T) {
	assert.NoError(t, Diagnose(testutils.EvenZerosDefinition()))
}

func TestMachine_Immutable(t *testing.T) {
	def := testutils.ScenarioDefinition()
	m, err := Validate(def)
	require.NoError(t, err)

	def.States[0] = "changed"
	def.Transitions[0].To = "qR"

	states := m.States()
	states[1] = "changed"

	assert.Equal(t, []string{"q0", "qA", "qR"}, m.States())
	target, err := m.Lookup("q0", "-")
	require.NoError(t, err)
	assert.Equal(t, "q0", target.Next)
}

func TestMachine_Reads(t *testing.T) {
	m, err := Validate(testutils.ScenarioDefinition())
	require.NoError(t, err)

	assert.True(t, m.Reads("0"))
	assert.True(t, m.Reads(domain.LeftMarker))
	assert.True(t, m.Reads(domain.RightMarker))
	assert.False(t, m.Reads("2"))
	assert.True(t, m.IsAbsorbing("qR"))
	assert.False(t, m.IsAbsorbing("q0"))
}
