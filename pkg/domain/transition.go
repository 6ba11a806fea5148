package domain

import "fmt"

// NoNextState is the sentinel target of an absorbing transition out of the
// accept or reject state. At run time it keeps the machine where it is.
const NoNextState = "_"

// Transition is the 4-tuple (state, symbol, next state, direction).
type Transition struct {
	From string    `json:"from" yaml:"from" mapstructure:"from"`
	Read Symbol    `json:"read" yaml:"read" mapstructure:"read"`
	To   string    `json:"to" yaml:"to" mapstructure:"to"`
	Move Direction `json:"move" yaml:"move" mapstructure:"move"`
}

func (t Transition) String() string {
	return fmt.Sprintf("%s %s %s %s", t.From, t.Read, t.To, t.Move)
}

// Target is the right-hand side of a transition, as stored in the index.
type Target struct {
	Next string
	Move Direction
}

// Definition is a raw machine description as produced by a loader.
// It carries no guarantees until it passes validation.
type Definition struct {
	States      []string     `json:"states" yaml:"states"`
	Alphabet    []Symbol     `json:"alphabet" yaml:"alphabet"`
	Start       string       `json:"start" yaml:"start"`
	Accept      string       `json:"accept" yaml:"accept"`
	Reject      string       `json:"reject" yaml:"reject"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

// ExtendedAlphabet returns Sigma bracketed by the end markers, in tape order:
// the left marker, Sigma, the right marker.
func ExtendedAlphabet(sigma []Symbol) []Symbol {
	ext := make([]Symbol, 0, len(sigma)+2)
	ext = append(ext, LeftMarker)
	ext = append(ext, sigma...)
	return append(ext, RightMarker)
}
