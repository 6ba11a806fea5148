package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/twoway"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of twoway",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("twoway version %s\n", strings.TrimSpace(twoway.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
