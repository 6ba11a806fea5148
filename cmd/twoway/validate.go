package main

import (
	"fmt"
	"os"

	"github.com/aretw0/twoway/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a machine definition",
	Long: `Parses the definition and checks that it is a complete, deterministic 2DFA.
By default the first violated rule is reported; --all reports every violation.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, _, err := engineOptions(cmd, args)
		if err == nil {
			all, _ := cmd.Flags().GetBool("all")
			err = cli.RunValidate(cmd.Context(), opts, all)
		}
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Machine is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("all", false, "Report every violation instead of the first")
}
