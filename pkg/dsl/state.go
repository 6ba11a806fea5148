package dsl

import "github.com/aretw0/twoway/pkg/domain"

// StateBuilder provides a fluent API for the transitions leaving one state.
type StateBuilder struct {
	id          string
	transitions []domain.Transition
	absorbing   bool
}

// On adds the transition (state, symbol) -> (next, move).
func (s *StateBuilder) On(symbol domain.Symbol, next string, move domain.Direction) *StateBuilder {
	s.transitions = append(s.transitions, domain.Transition{
		From: s.id,
		Read: symbol,
		To:   next,
		Move: move,
	})
	return s
}

// Absorb completes the state with self-loops for every extended symbol that
// has no explicit transition: right everywhere, left on the right end marker.
func (s *StateBuilder) Absorb() *StateBuilder {
	s.absorbing = true
	return s
}

func (s *StateBuilder) selfLoops(extended []domain.Symbol) []domain.Transition {
	explicit := make(map[domain.Symbol]bool, len(s.transitions))
	for _, t := range s.transitions {
		explicit[t.Read] = true
	}

	var loops []domain.Transition
	for _, sym := range extended {
		if explicit[sym] {
			continue
		}
		move := domain.Right
		if sym == domain.RightMarker {
			move = domain.Left
		}
		loops = append(loops, domain.Transition{From: s.id, Read: sym, To: s.id, Move: move})
	}
	return loops
}
