package main

import (
	"fmt"

	"github.com/aretw0/twoway/pkg/adapters/redis"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the machine definitions stored in Redis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := cfg.Redis
		loader := redis.New(r.Addr, r.Password, r.DB, "", redis.WithPrefix(r.KeyPrefix))
		defer loader.Close()

		names, err := loader.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
