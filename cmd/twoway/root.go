package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/twoway/internal/cli"
	"github.com/aretw0/twoway/internal/config"
	"github.com/spf13/cobra"
)

var (
	settings = config.New()
	cfg      config.Config
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "twoway",
	Short: "twoway runs two-way deterministic finite automata",
	Long: `twoway loads a 2DFA definition, validates it, and evaluates words against it.
Definitions are read from a text or YAML file, or from Redis with --redis-name.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.BindFlags(settings, cmd.Flags()); err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("config")

		var err error
		if cfg, err = config.Load(settings, path); err != nil {
			return err
		}
		if logger, err = cli.CreateLogger(cfg.Debug, cfg.Log.Level, cfg.Log.JSON); err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $"+config.EnvConfig+")")
	pf.Bool("debug", false, "Enable debug logs and lifecycle hooks")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.Bool("log-json", false, "Write logs as JSON")
	pf.Int("max-steps", 10000, "Maximum steps per word before giving up")
	pf.String("redis-name", "", "Load the definition stored in Redis under this name instead of a file")
	pf.String("redis-addr", "localhost:6379", "Redis address")
	pf.String("redis-password", "", "Redis password")
	pf.Int("redis-db", 0, "Redis database")
	pf.String("redis-prefix", "twoway:machine:", "Redis key prefix for definitions")
}

// engineOptions splits positional arguments into the definition path and the
// remaining arguments. With --redis-name there is no path argument.
func engineOptions(cmd *cobra.Command, args []string) (cli.Options, []string, error) {
	opts := cli.Options{
		Config: cfg,
		Logger: logger,
	}
	opts.RedisName, _ = cmd.Flags().GetString("redis-name")
	if opts.RedisName != "" {
		return opts, args, nil
	}
	if len(args) == 0 {
		return opts, nil, fmt.Errorf("missing definition file (or use --redis-name)")
	}
	opts.Path = args[0]
	return opts, args[1:], nil
}
