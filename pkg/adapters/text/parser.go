// Package text reads and writes machine definitions in the line-based format:
//
//	q0 qA qR
//	0 1
//	q0 qA qR
//	q0 - q0 right
//
// The lines are Q, Sigma, "start accept reject", then one
// "state symbol next direction" transition per line. Blank lines are
// skipped. There are no comments: '#' is an ordinary symbol or state name.
package text

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/twoway/pkg/domain"
)

// ErrSyntax is the root of every ParseError.
var ErrSyntax = errors.New("definition syntax error")

// ParseError locates a malformed line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// Parse reads a definition. It checks the layout only; the result still has
// to go through machine.Validate.
func Parse(r io.Reader) (domain.Definition, error) {
	var def domain.Definition

	sc := bufio.NewScanner(r)
	header := 0
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		fields := strings.Fields(raw)

		switch header {
		case 0:
			def.States = fields
		case 1:
			for _, f := range fields {
				def.Alphabet = append(def.Alphabet, domain.Symbol(f))
			}
		case 2:
			if len(fields) != 3 {
				return def, &ParseError{Line: line, Msg: fmt.Sprintf("expected \"start accept reject\", got %d fields", len(fields))}
			}
			def.Start, def.Accept, def.Reject = fields[0], fields[1], fields[2]
		default:
			t, err := parseTransition(fields)
			if err != nil {
				return def, &ParseError{Line: line, Msg: err.Error()}
			}
			def.Transitions = append(def.Transitions, t)
		}
		header++
	}
	if err := sc.Err(); err != nil {
		return def, fmt.Errorf("failed to read definition: %w", err)
	}
	if header < 3 {
		return def, &ParseError{Line: line, Msg: "incomplete header: need states, alphabet and \"start accept reject\" lines"}
	}
	return def, nil
}

func parseTransition(fields []string) (domain.Transition, error) {
	if len(fields) != 4 {
		return domain.Transition{}, fmt.Errorf("expected \"state symbol next direction\", got %d fields", len(fields))
	}
	move, err := domain.ParseDirection(fields[3])
	if err != nil {
		return domain.Transition{}, err
	}
	return domain.Transition{
		From: fields[0],
		Read: domain.Symbol(fields[1]),
		To:   fields[2],
		Move: move,
	}, nil
}

// Format writes def back in the line-based format.
func Format(w io.Writer, def domain.Definition) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, strings.Join(def.States, " "))
	symbols := make([]string, len(def.Alphabet))
	for i, s := range def.Alphabet {
		symbols[i] = string(s)
	}
	fmt.Fprintln(bw, strings.Join(symbols, " "))
	fmt.Fprintf(bw, "%s %s %s\n", def.Start, def.Accept, def.Reject)
	for _, t := range def.Transitions {
		fmt.Fprintln(bw, t.String())
	}
	return bw.Flush()
}
