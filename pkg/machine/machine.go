package machine

import (
	"slices"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/index"
)

// Machine is a validated 2DFA. It is immutable: accessors return copies and
// the only way to obtain one is Validate.
type Machine struct {
	states      []string
	alphabet    []domain.Symbol
	transitions []domain.Transition
	start       string
	accept      string
	reject      string

	sigma map[domain.Symbol]struct{}
	index *index.Index
}

// States returns Q in declaration order.
func (m *Machine) States() []string { return slices.Clone(m.states) }

// Alphabet returns Sigma (without the end markers).
func (m *Machine) Alphabet() []domain.Symbol { return slices.Clone(m.alphabet) }

// Transitions returns Delta in declaration order.
func (m *Machine) Transitions() []domain.Transition { return slices.Clone(m.transitions) }

func (m *Machine) Start() string  { return m.start }
func (m *Machine) Accept() string { return m.accept }
func (m *Machine) Reject() string { return m.reject }

// Lookup resolves (state, symbol) through the transition index.
func (m *Machine) Lookup(state string, symbol domain.Symbol) (domain.Target, error) {
	return m.index.Lookup(state, symbol)
}

// Reads reports whether symbol belongs to the extended alphabet.
func (m *Machine) Reads(symbol domain.Symbol) bool {
	if symbol.IsMarker() {
		return true
	}
	_, ok := m.sigma[symbol]
	return ok
}

// IsAbsorbing reports whether state is the accept or the reject state.
func (m *Machine) IsAbsorbing(state string) bool {
	return state == m.accept || state == m.reject
}

// Definition converts the machine back to its raw form, e.g. for export.
func (m *Machine) Definition() domain.Definition {
	return domain.Definition{
		States:      m.States(),
		Alphabet:    m.Alphabet(),
		Start:       m.start,
		Accept:      m.accept,
		Reject:      m.reject,
		Transitions: m.Transitions(),
	}
}
