package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDefinition is the root of every ValidationError.
var ErrInvalidDefinition = errors.New("invalid machine definition")

// ErrExecution is the root of every ExecutionError.
var ErrExecution = errors.New("execution failed")

// ErrTraceFinished is returned when stepping a trace that already halted or failed.
var ErrTraceFinished = errors.New("trace already finished")

// ValidationKind names the rule a definition violated.
type ValidationKind string

const (
	EmptyStateSet                    ValidationKind = "EmptyStateSet"
	AcceptEqualsReject               ValidationKind = "AcceptEqualsReject"
	InvalidAlphabet                  ValidationKind = "InvalidAlphabet"
	ReservedStateName                ValidationKind = "ReservedStateName"
	SymbolNotInAlphabet              ValidationKind = "SymbolNotInAlphabet"
	StateNotInQ                      ValidationKind = "StateNotInQ"
	AcceptStateHasOutgoingTransition ValidationKind = "AcceptStateHasOutgoingTransition"
	RejectStateHasOutgoingTransition ValidationKind = "RejectStateHasOutgoingTransition"
	InvalidMarkerDirection           ValidationKind = "InvalidMarkerDirection"
	InvalidDirection                 ValidationKind = "InvalidDirection"
	MissingTransition                ValidationKind = "MissingTransition"
	AmbiguousTransition              ValidationKind = "AmbiguousTransition"
	DuplicateStateName               ValidationKind = "DuplicateStateName"
)

var validationReasons = map[ValidationKind]string{
	EmptyStateSet:                    "the set of states is empty",
	AcceptEqualsReject:               "accept and reject states must differ",
	InvalidAlphabet:                  "alphabet symbols must be single characters other than the end markers",
	SymbolNotInAlphabet:              "input not in alphabet",
	ReservedStateName:                "state name is reserved for \"no next state\"",
	StateNotInQ:                      "state not in set of states",
	AcceptStateHasOutgoingTransition: "accept state cannot have an outgoing transition",
	RejectStateHasOutgoingTransition: "reject state cannot have an outgoing transition",
	InvalidMarkerDirection:           "end markers cannot move the head off the tape",
	InvalidDirection:                 "direction must be left or right",
	MissingTransition:                "machine is not deterministic: missing transition",
	AmbiguousTransition:              "machine is not deterministic: more than one transition",
	DuplicateStateName:               "duplicate state name",
}

// ValidationError reports the exact rule and element a definition violated.
type ValidationError struct {
	Kind ValidationKind

	// Transition is the offending transition, when the rule is per-transition.
	Transition *Transition

	State  string
	Symbol Symbol

	// Hint is an optional suggestion for the user (e.g. the closest state name).
	Hint string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(validationReasons[e.Kind])

	switch {
	case e.Transition != nil:
		fmt.Fprintf(&sb, " (transition: %s)", e.Transition)
	case e.State != "" && e.Symbol != "":
		fmt.Fprintf(&sb, " (state %q, symbol %q)", e.State, e.Symbol)
	case e.State != "":
		fmt.Fprintf(&sb, " (state %q)", e.State)
	case e.Symbol != "":
		fmt.Fprintf(&sb, " (symbol %q)", e.Symbol)
	}

	if e.Hint != "" {
		fmt.Fprintf(&sb, "; %s", e.Hint)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDefinition
}

// AggregateError collects several validation failures for display.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ExecutionKind names the reason a word evaluation stopped without a verdict.
type ExecutionKind string

const (
	UndefinedTransition ExecutionKind = "UndefinedTransition"
	StepLimitExceeded   ExecutionKind = "StepLimitExceeded"
	UnknownTapeSymbol   ExecutionKind = "SymbolNotInAlphabet"
	HeadOutOfBounds     ExecutionKind = "HeadOutOfBounds"
)

// ExecutionError stops the current word only; the machine stays usable.
type ExecutionError struct {
	Kind   ExecutionKind
	State  string
	Symbol Symbol
	Head   int
	Steps  int
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case UndefinedTransition:
		return fmt.Sprintf("undefined transition for state %q on symbol %q", e.State, e.Symbol)
	case StepLimitExceeded:
		return fmt.Sprintf("step limit exceeded after %d steps (state %q, head %d)", e.Steps, e.State, e.Head)
	case UnknownTapeSymbol:
		return fmt.Sprintf("symbol %q at position %d does not exist in sigma", e.Symbol, e.Head)
	case HeadOutOfBounds:
		return fmt.Sprintf("head moved off the tape (position %d, state %q)", e.Head, e.State)
	}
	return string(e.Kind)
}

func (e *ExecutionError) Unwrap() error {
	return ErrExecution
}

// Defect reports whether the error can only come from a corrupted or
// unvalidated machine, as opposed to a bad word or a looping machine.
func (e *ExecutionError) Defect() bool {
	return e.Kind == UndefinedTransition || e.Kind == HeadOutOfBounds
}

// ValidationKindOf extracts the kind of a validation error, if err is one.
func ValidationKindOf(err error) (ValidationKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}

// ExecutionKindOf extracts the kind of an execution error, if err is one.
func ExecutionKindOf(err error) (ExecutionKind, bool) {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return "", false
}
