// Package inmemory provides a DefinitionLoader backed by a Definition value.
package inmemory

import (
	"context"
	"slices"

	"github.com/aretw0/twoway/pkg/domain"
)

// Loader implements ports.DefinitionLoader for a fixed definition.
type Loader struct {
	def  domain.Definition
	name string
}

// New creates a loader serving def.
func New(def domain.Definition) *Loader {
	return &Loader{def: def, name: "memory"}
}

// Named sets the label reported by Name.
func (l *Loader) Named(name string) *Loader {
	l.name = name
	return l
}

// Load returns a copy of the definition so callers cannot mutate the source.
func (l *Loader) Load(ctx context.Context) (domain.Definition, error) {
	return domain.Definition{
		States:      slices.Clone(l.def.States),
		Alphabet:    slices.Clone(l.def.Alphabet),
		Start:       l.def.Start,
		Accept:      l.def.Accept,
		Reject:      l.def.Reject,
		Transitions: slices.Clone(l.def.Transitions),
	}, nil
}

// Name identifies the source in logs.
func (l *Loader) Name() string {
	return l.name
}
