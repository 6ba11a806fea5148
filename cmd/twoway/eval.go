package main

import (
	"os"

	"github.com/aretw0/twoway/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var evalCmd = &cobra.Command{
	Use:   "eval [file] [word...]",
	Short: "Evaluate a list of words",
	Long: `Evaluates every word independently and prints a report.
Without word arguments, words are read from standard input, one per line
(an empty line is the empty word). Exits non-zero if any word hit an
execution error such as the step limit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, words, err := engineOptions(cmd, args)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			if words, err = cli.ReadWords(os.Stdin); err != nil {
				return err
			}
		}
		format, _ := cmd.Flags().GetString("format")

		_, err = cli.RunEval(cmd.Context(), cli.EvalOptions{
			Options: opts,
			Words:   words,
			Format:  format,
			Pretty:  term.IsTerminal(int(os.Stdout.Fd())),
			Output:  os.Stdout,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("format", "f", cli.FormatText, "Report format: text, json or markdown")
}
