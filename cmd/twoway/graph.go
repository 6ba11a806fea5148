package main

import (
	"fmt"

	"github.com/aretw0/twoway/internal/cli"
	"github.com/aretw0/twoway/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the machine as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the machine: start in yellow, accept in green,
reject in red. With --word, the states visited while tracing the word are
outlined and the last one is filled in blue.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _, err := engineOptions(cmd, args)
		if err != nil {
			return err
		}
		engine, err := cli.CreateEngine(opts)
		if err != nil {
			return err
		}
		def := engine.Inspect()

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("word") {
			word, _ := cmd.Flags().GetString("word")
			history, _, err := engine.Trace(cmd.Context(), word)
			if err != nil {
				logger.Warn("Trace stopped early; showing the partial run", "word", word, "error", err)
			}
			overlay = graph.OverlayFromHistory(def.Start, history)
		}

		fmt.Print(graph.GenerateMermaid(def, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("word", "", "Highlight the run of this word")
}
