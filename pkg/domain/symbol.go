package domain

import (
	"fmt"
	"strings"
)

// Symbol is a single tape character.
type Symbol string

// Reserved end markers. They are never part of a declared alphabet but are
// always valid tape symbols.
const (
	LeftMarker  Symbol = "-"
	RightMarker Symbol = "+"
)

// IsMarker reports whether s is one of the two end markers.
func (s Symbol) IsMarker() bool {
	return s == LeftMarker || s == RightMarker
}

// Direction is the head movement applied after a transition.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection accepts "left"/"right" and the short forms "L"/"R", case-insensitive.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return "", fmt.Errorf("invalid direction %q (expected left or right)", raw)
}

// Delta returns the head offset for the direction.
func (d Direction) Delta() int {
	if d == Left {
		return -1
	}
	return 1
}

// Tape wraps a raw word with the end markers, one symbol per character.
// The head of a fresh trace points at index 0, the left marker.
func Tape(word string) []Symbol {
	tape := make([]Symbol, 0, len(word)+2)
	tape = append(tape, LeftMarker)
	for _, r := range word {
		tape = append(tape, Symbol(string(r)))
	}
	return append(tape, RightMarker)
}

// TapeString joins a tape back into its printable form, e.g. "-01+".
func TapeString(tape []Symbol) string {
	var sb strings.Builder
	for _, s := range tape {
		sb.WriteString(string(s))
	}
	return sb.String()
}
