// Package index organizes a transition relation for state-keyed lookup.
package index

import "github.com/aretw0/twoway/pkg/domain"

// Key identifies a transition by its left-hand side.
type Key struct {
	State  string
	Symbol domain.Symbol
}

// Index maps (state, symbol) to exactly one (next state, direction).
// It is read-only after Build.
type Index struct {
	targets map[Key]domain.Target
}

// Build indexes the transitions. A repeated (state, symbol) pair is rejected
// with an AmbiguousTransition validation error, since lookups must be unique.
func Build(transitions []domain.Transition) (*Index, error) {
	targets := make(map[Key]domain.Target, len(transitions))
	for _, t := range transitions {
		k := Key{State: t.From, Symbol: t.Read}
		if _, dup := targets[k]; dup {
			return nil, &domain.ValidationError{
				Kind:       domain.AmbiguousTransition,
				Transition: &t,
				State:      t.From,
				Symbol:     t.Read,
			}
		}
		targets[k] = domain.Target{Next: t.To, Move: t.Move}
	}
	return &Index{targets: targets}, nil
}

// Lookup returns the target for (state, symbol).
// A miss returns an UndefinedTransition execution error; for a validated
// machine this indicates a caller defect.
func (ix *Index) Lookup(state string, symbol domain.Symbol) (domain.Target, error) {
	target, ok := ix.targets[Key{State: state, Symbol: symbol}]
	if !ok {
		return domain.Target{}, &domain.ExecutionError{
			Kind:   domain.UndefinedTransition,
			State:  state,
			Symbol: symbol,
		}
	}
	return target, nil
}
