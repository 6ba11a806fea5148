package dsl

import (
	"github.com/aretw0/twoway/pkg/adapters/inmemory"
	"github.com/aretw0/twoway/pkg/domain"
)

// Builder manages the machine construction.
// States are kept in the order they were first mentioned.
type Builder struct {
	order    []string
	states   map[string]*StateBuilder
	alphabet []domain.Symbol
	start    string
	accept   string
	reject   string
}

// New creates a new machine builder.
func New() *Builder {
	return &Builder{
		states: make(map[string]*StateBuilder),
	}
}

// Alphabet declares Sigma. Symbols are appended in order.
func (b *Builder) Alphabet(symbols ...domain.Symbol) *Builder {
	b.alphabet = append(b.alphabet, symbols...)
	return b
}

// Start designates (and declares) the start state.
func (b *Builder) Start(id string) *Builder {
	b.State(id)
	b.start = id
	return b
}

// Accept designates (and declares) the accept state.
func (b *Builder) Accept(id string) *Builder {
	b.State(id)
	b.accept = id
	return b
}

// Reject designates (and declares) the reject state.
func (b *Builder) Reject(id string) *Builder {
	b.State(id)
	b.reject = id
	return b
}

// State declares a state. If the state already exists, it returns the existing builder.
func (b *Builder) State(id string) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Definition assembles the raw definition. It does not validate it.
func (b *Builder) Definition() domain.Definition {
	def := domain.Definition{
		States:   append([]string(nil), b.order...),
		Alphabet: append([]domain.Symbol(nil), b.alphabet...),
		Start:    b.start,
		Accept:   b.accept,
		Reject:   b.reject,
	}

	for _, id := range b.order {
		sb := b.states[id]
		def.Transitions = append(def.Transitions, sb.transitions...)
		if sb.absorbing {
			def.Transitions = append(def.Transitions, sb.selfLoops(domain.ExtendedAlphabet(b.alphabet))...)
		}
	}
	return def
}

// Build compiles the definition into an in-memory loader.
func (b *Builder) Build() *inmemory.Loader {
	return inmemory.New(b.Definition())
}
