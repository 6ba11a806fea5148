package main

import (
	"fmt"
	"os"

	"github.com/aretw0/twoway/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file] <word>",
	Short: "Step through a word interactively",
	Long: `Starts the machine on a word and applies one transition each time Enter is pressed,
showing the state, the symbol read and the tape with the head highlighted.
Type 'run' to finish without further prompts or 'quit' to stop.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, rest, err := engineOptions(cmd, args)
		if err != nil {
			return err
		}
		word := ""
		if len(rest) > 0 {
			word = rest[0]
		}
		headless, _ := cmd.Flags().GetBool("headless")
		jsonLines, _ := cmd.Flags().GetBool("json")

		outcome, err := cli.RunSession(cmd.Context(), cli.SessionOptions{
			Options:  opts,
			Word:     word,
			Headless: headless,
			JSON:     jsonLines,
			Input:    os.Stdin,
			Output:   os.Stdout,
		})
		if err != nil {
			return err
		}
		logger.Debug("Session finished", "verdict", outcome.Verdict, "steps", outcome.Steps)
		if !outcome.Accepted() && outcome.Verdict != "" {
			return fmt.Errorf("word %q was %s", word, outcome.Verdict)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("headless", false, "Run to completion without prompts")
	runCmd.Flags().Bool("json", false, "Write each step as a JSON line (implies --headless)")
}
