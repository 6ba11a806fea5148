// Package machine validates raw 2DFA definitions and holds the resulting
// immutable Machine.
//
// Validation runs in a fixed order and stops at the first violation:
//
//  1. definition shape (non-empty Q, no reserved state name, designated
//     states declared, alphabet form)
//  2. transition well-formedness (alphabet, states, absorbing states, markers)
//  3. determinism (exactly one transition per state and extended symbol)
//  4. state-name uniqueness
//
// Diagnose runs the same checks but collects every violation.
package machine

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/index"
)

// Validate checks def and returns the immutable Machine with its transition
// index. On failure it returns a *domain.ValidationError and no Machine.
func Validate(def domain.Definition) (*Machine, error) {
	var first error
	check(def, func(err error) bool {
		first = err
		return false
	})
	if first != nil {
		return nil, first
	}

	ix, err := index.Build(def.Transitions)
	if err != nil {
		return nil, err
	}

	sigma := make(map[domain.Symbol]struct{}, len(def.Alphabet))
	for _, s := range def.Alphabet {
		sigma[s] = struct{}{}
	}

	return &Machine{
		states:      slices.Clone(def.States),
		alphabet:    slices.Clone(def.Alphabet),
		transitions: slices.Clone(def.Transitions),
		start:       def.Start,
		accept:      def.Accept,
		reject:      def.Reject,
		sigma:       sigma,
		index:       ix,
	}, nil
}

// Diagnose reports every violation in def, in check order.
// It returns nil for a valid definition.
func Diagnose(def domain.Definition) error {
	var errs []error
	check(def, func(err error) bool {
		errs = append(errs, err)
		return true
	})
	if len(errs) == 0 {
		return nil
	}
	return &domain.AggregateError{Errors: errs}
}

// check walks the rules, handing each violation to emit.
// It stops as soon as emit returns false.
func check(def domain.Definition, emit func(error) bool) {
	q := make(map[string]bool, len(def.States))
	for _, s := range def.States {
		q[s] = true
	}

	if !checkShape(def, q, emit) {
		return
	}

	sigma := make(map[domain.Symbol]bool, len(def.Alphabet)+2)
	for _, s := range domain.ExtendedAlphabet(def.Alphabet) {
		sigma[s] = true
	}

	for i := range def.Transitions {
		if err := checkTransition(def, q, sigma, def.Transitions[i]); err != nil {
			if !emit(err) {
				return
			}
		}
	}

	if !checkDeterminism(def, emit) {
		return
	}

	seen := make(map[string]bool, len(def.States))
	for _, s := range def.States {
		if seen[s] {
			if !emit(&domain.ValidationError{Kind: domain.DuplicateStateName, State: s}) {
				return
			}
			continue
		}
		seen[s] = true
	}
}

func checkShape(def domain.Definition, q map[string]bool, emit func(error) bool) bool {
	if len(def.States) == 0 {
		return emit(&domain.ValidationError{Kind: domain.EmptyStateSet})
	}

	for _, designated := range []struct {
		role  string
		state string
	}{
		{"start", def.Start},
		{"accept", def.Accept},
		{"reject", def.Reject},
	} {
		if !q[designated.state] {
			err := &domain.ValidationError{
				Kind:  domain.StateNotInQ,
				State: designated.state,
				Hint:  designated.role + " state must be declared" + suggest(designated.state, def.States),
			}
			if !emit(err) {
				return false
			}
		}
	}

	for _, s := range def.States {
		if s == domain.NoNextState {
			if !emit(&domain.ValidationError{Kind: domain.ReservedStateName, State: s}) {
				return false
			}
		}
	}

	if def.Accept == def.Reject {
		if !emit(&domain.ValidationError{Kind: domain.AcceptEqualsReject, State: def.Accept}) {
			return false
		}
	}

	seen := make(map[domain.Symbol]bool, len(def.Alphabet))
	for _, s := range def.Alphabet {
		if utf8.RuneCountInString(string(s)) != 1 || s.IsMarker() || seen[s] {
			if !emit(&domain.ValidationError{Kind: domain.InvalidAlphabet, Symbol: s}) {
				return false
			}
		}
		seen[s] = true
	}
	return true
}

func checkTransition(def domain.Definition, q map[string]bool, sigma map[domain.Symbol]bool, t domain.Transition) error {
	fail := func(kind domain.ValidationKind, hint string) error {
		return &domain.ValidationError{
			Kind:       kind,
			Transition: &t,
			State:      t.From,
			Symbol:     t.Read,
			Hint:       hint,
		}
	}

	if !sigma[t.Read] {
		return fail(domain.SymbolNotInAlphabet, "")
	}
	if !q[t.From] {
		return fail(domain.StateNotInQ, "current state is undeclared"+suggest(t.From, def.States))
	}

	absorbing := t.From == def.Accept || t.From == def.Reject
	if !q[t.To] && !(absorbing && t.To == domain.NoNextState) {
		return fail(domain.StateNotInQ, "next state is undeclared"+suggest(t.To, def.States))
	}

	if t.From == def.Accept && t.To != def.Accept && t.To != domain.NoNextState {
		return fail(domain.AcceptStateHasOutgoingTransition, "")
	}
	if t.From == def.Reject && t.To != def.Reject && t.To != domain.NoNextState {
		return fail(domain.RejectStateHasOutgoingTransition, "")
	}

	if t.Move != domain.Left && t.Move != domain.Right {
		return fail(domain.InvalidDirection, fmt.Sprintf("unknown direction %q", t.Move))
	}
	if t.Read == domain.LeftMarker && t.Move == domain.Left {
		return fail(domain.InvalidMarkerDirection, "cannot move left from the left end marker")
	}
	if t.Read == domain.RightMarker && t.Move == domain.Right {
		return fail(domain.InvalidMarkerDirection, "cannot move right from the right end marker")
	}
	return nil
}

func checkDeterminism(def domain.Definition, emit func(error) bool) bool {
	counts := make(map[index.Key]int, len(def.Transitions))
	for _, t := range def.Transitions {
		counts[index.Key{State: t.From, Symbol: t.Read}]++
	}

	seen := make(map[string]bool, len(def.States))
	for _, state := range def.States {
		if seen[state] {
			continue
		}
		seen[state] = true

		for _, symbol := range domain.ExtendedAlphabet(def.Alphabet) {
			var kind domain.ValidationKind
			switch n := counts[index.Key{State: state, Symbol: symbol}]; {
			case n == 0:
				kind = domain.MissingTransition
			case n > 1:
				kind = domain.AmbiguousTransition
			default:
				continue
			}
			if !emit(&domain.ValidationError{Kind: kind, State: state, Symbol: symbol}) {
				return false
			}
		}
	}
	return true
}

// suggest returns a " (did you mean ...?)" hint when a declared state is close to name.
func suggest(name string, states []string) string {
	if name == "" || len(states) == 0 {
		return ""
	}

	best, bestDist := "", -1
	for _, s := range states {
		d := levenshtein.ComputeDistance(name, s)
		if bestDist < 0 || d < bestDist {
			best, bestDist = s, d
		}
	}

	if bestDist > 0 && bestDist <= max(1, len(name)/2) {
		return fmt.Sprintf(" (did you mean %q?)", best)
	}
	return ""
}
