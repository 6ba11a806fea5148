package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/twoway"
	"github.com/aretw0/twoway/internal/presentation/tui"
	"github.com/aretw0/twoway/pkg/domain"
)

// SessionOptions configures an interactive stepping session.
type SessionOptions struct {
	Options
	Word     string
	Headless bool
	JSON     bool
	Input    io.Reader
	Output   io.Writer
}

// RunSession steps one word through the machine, one transition per Enter.
// An interrupt ends the session quietly; an execution error is returned.
func RunSession(ctx context.Context, opts SessionOptions) (domain.Outcome, error) {
	if err := domain.CheckWord(opts.Word); err != nil {
		return domain.Outcome{}, err
	}

	engine, err := CreateEngine(opts.Options)
	if err != nil {
		return domain.Outcome{}, err
	}

	interactive := !opts.Headless && !opts.JSON && isTerminal(opts.Input)
	if interactive {
		tui.PrintBanner(opts.Output)
		printSystemMessage(opts.Output, "Machine '%s': press Enter to step, 'run' to finish, 'quit' to leave.", engine.Name)
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	r := twoway.NewRunner()
	if opts.Input != nil {
		r.Input = NewInterruptibleReader(opts.Input, sigCtx.Done())
	}
	r.Output = opts.Output
	r.Headless = opts.Headless
	r.JSON = opts.JSON
	if interactive {
		r.Renderer = tui.RenderStep
	}

	outcome, runErr := r.Run(sigCtx, engine, opts.Word)
	if sig := sigCtx.Signal(); sig != nil {
		fmt.Fprintln(opts.Output)
		printSystemMessage(opts.Output, "Interrupted (%v) after %d steps.", sig, outcome.Steps)
	}
	return outcome, handleExecutionError(runErr)
}
