package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/twoway/internal/presentation/tui"
	"github.com/aretw0/twoway/pkg/domain"
)

// ErrWordsFailed is returned when at least one word hit an execution error.
var ErrWordsFailed = errors.New("some words could not be evaluated")

// Report formats accepted by RunEval.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// EvalOptions configures a batch evaluation.
type EvalOptions struct {
	Options
	Words  []string
	Format string
	// Pretty renders markdown for the terminal.
	Pretty bool
	Output io.Writer
}

// ReadWords reads one word per line. Empty lines are the empty word;
// a trailing newline does not add one.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}
	return words, nil
}

// RunEval evaluates every word and writes the report. It returns
// ErrWordsFailed when any word failed, after the report is written.
func RunEval(ctx context.Context, opts EvalOptions) (domain.Report, error) {
	for _, w := range opts.Words {
		if err := domain.CheckWord(w); err != nil {
			return domain.Report{}, err
		}
	}

	engine, err := CreateEngine(opts.Options)
	if err != nil {
		return domain.Report{}, err
	}

	report := engine.EvaluateAll(ctx, opts.Words)
	if err := writeReport(opts, engine.Name, report); err != nil {
		return report, err
	}
	if report.Failed > 0 {
		return report, ErrWordsFailed
	}
	return report, nil
}

func writeReport(opts EvalOptions, name string, report domain.Report) error {
	switch opts.Format {
	case "", FormatText:
		for _, e := range report.Entries {
			fmt.Fprintf(opts.Output, "%-20q %-9s %5d steps", e.Word, e.Outcome.Verdict, e.Outcome.Steps)
			if e.Error != "" {
				fmt.Fprintf(opts.Output, "  %s", e.Error)
			}
			fmt.Fprintln(opts.Output)
		}
		fmt.Fprintf(opts.Output, "%d accepted, %d rejected, %d failed\n", report.Accepted, report.Rejected, report.Failed)
		return nil

	case FormatJSON:
		if report.Entries == nil {
			report.Entries = []domain.ReportEntry{}
		}
		enc := json.NewEncoder(opts.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	case FormatMarkdown:
		md := tui.ReportMarkdown(name, report)
		if opts.Pretty {
			rendered, err := tui.NewRenderer()(md)
			if err == nil {
				md = rendered
			}
		}
		_, err := io.WriteString(opts.Output, md)
		return err
	}
	return fmt.Errorf("unknown format %q (want text, json or markdown)", opts.Format)
}
