package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxWordLength caps words accepted from untrusted adapters, in symbols.
const MaxWordLength = 4096

// ErrInputRejected marks a word refused before evaluation.
var ErrInputRejected = errors.New("input rejected")

// CheckWord rejects words that are not valid UTF-8 or are longer than
// MaxWordLength. Symbols outside the alphabet are left to the engine.
func CheckWord(word string) error {
	if !utf8.ValidString(word) {
		return fmt.Errorf("%w: word is not valid UTF-8", ErrInputRejected)
	}
	if n := utf8.RuneCountInString(word); n > MaxWordLength {
		return fmt.Errorf("%w: word too long (%d symbols, max %d)", ErrInputRejected, n, MaxWordLength)
	}
	return nil
}
