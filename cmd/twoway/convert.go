package main

import (
	"os"

	"github.com/aretw0/twoway/internal/cli"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Rewrite a machine definition in another format",
	Long: `Validates the machine and prints it in the line-based text format or in YAML.
Combined with --redis-name it exports a stored definition to a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _, err := engineOptions(cmd, args)
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")
		return cli.RunConvert(opts, to, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("to", cli.FormatYAML, "Output format: text or yaml")
}
