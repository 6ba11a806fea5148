package twoway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/twoway/pkg/domain"
)

// StepRenderer formats one observation for display.
// This allows for TUI rendering (colors, tape view) without coupling the core package.
type StepRenderer func(def domain.Definition, tape []domain.Symbol, obs domain.StepObservation) string

// Runner steps a word through the engine, one transition per line of input.
//
// An empty line applies the next step. "run" finishes the word without
// further prompts, and "quit" or "exit" (or EOF) stops early.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool // never prompt; run every word to completion
	JSON     bool // write JSON Lines instead of text; implies Headless
	Renderer StepRenderer
}

// Line is one record of the JSON Lines stream: a "step" per transition and a
// closing "result" with the final configuration.
type Line struct {
	Type        string                  `json:"type"`
	Observation *domain.StepObservation `json:"observation,omitempty"`
	Trace       *domain.TraceSnapshot   `json:"trace,omitempty"`
}

// NewRunner creates a Runner with the plain text renderer.
// Output must be set before Run, and Input unless Headless.
func NewRunner() *Runner {
	return &Runner{Renderer: PlainStep}
}

// Run traces word interactively. The returned outcome has VerdictNone when
// the user stops before the machine halts.
func (r *Runner) Run(ctx context.Context, engine *Engine, word string) (domain.Outcome, error) {
	if r.JSON {
		if r.Output == nil {
			return domain.Outcome{}, fmt.Errorf("output writer must be set (use os.Stdout)")
		}
		return r.runJSON(ctx, engine, word)
	}
	if r.Input == nil && !r.Headless {
		return domain.Outcome{}, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return domain.Outcome{}, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	render := r.Renderer
	if render == nil {
		render = PlainStep
	}

	var lines *bufio.Reader
	if r.Input != nil {
		lines = bufio.NewReader(r.Input)
	}
	def := engine.Inspect()
	tr := engine.NewTrace(word)
	tape := tr.Tape()
	interactive := !r.Headless

	fmt.Fprintf(r.Output, "Word: %q  start: %s\n", word, tr.State())

	for !tr.Finished() {
		if err := ctx.Err(); err != nil {
			return tr.Outcome(), err
		}

		if interactive {
			fmt.Fprint(r.Output, "Step> ")
			text, err := lines.ReadString('\n')
			cmd := strings.TrimSpace(text)
			if err != nil && (err != io.EOF || cmd == "") {
				if err == io.EOF {
					fmt.Fprintln(r.Output)
					return tr.Outcome(), nil
				}
				return tr.Outcome(), fmt.Errorf("input error: %w", err)
			}
			switch cmd {
			case "quit", "exit":
				fmt.Fprintln(r.Output, "Bye!")
				return tr.Outcome(), nil
			case "run":
				interactive = false
			}
		}

		obs, err := tr.Step(ctx)
		if err != nil {
			fmt.Fprintf(r.Output, "Error: %v\n", err)
			return tr.Outcome(), err
		}
		fmt.Fprint(r.Output, render(def, tape, obs))
	}
	return tr.Outcome(), nil
}

func (r *Runner) runJSON(ctx context.Context, engine *Engine, word string) (domain.Outcome, error) {
	enc := json.NewEncoder(r.Output)
	tr := engine.NewTrace(word)

	var runErr error
	for !tr.Finished() {
		if runErr = ctx.Err(); runErr != nil {
			break
		}
		obs, err := tr.Step(ctx)
		if err != nil {
			runErr = err
			break
		}
		if err := enc.Encode(Line{Type: "step", Observation: &obs}); err != nil {
			return tr.Outcome(), fmt.Errorf("failed to write step: %w", err)
		}
	}

	snap := tr.Snapshot()
	if err := enc.Encode(Line{Type: "result", Trace: &snap}); err != nil {
		return tr.Outcome(), fmt.Errorf("failed to write result: %w", err)
	}
	return tr.Outcome(), runErr
}

// PlainStep renders an observation without colors, the head cell in brackets.
func PlainStep(def domain.Definition, tape []domain.Symbol, obs domain.StepObservation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s reads %q -> %s %s\n", obs.Step, obs.PreviousState, obs.SymbolRead, obs.State, obs.Direction)

	for i, s := range tape {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == obs.Head {
			fmt.Fprintf(&sb, "[%s]", s)
			continue
		}
		sb.WriteString(string(s))
	}
	sb.WriteByte('\n')

	if obs.Halted {
		switch obs.Verdict {
		case domain.VerdictAccepted:
			sb.WriteString("Accepted\n")
		default:
			sb.WriteString("Rejected\n")
		}
	}
	return sb.String()
}
