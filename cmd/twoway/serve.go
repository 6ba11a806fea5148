package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/twoway/internal/cli"
	httpAdapter "github.com/aretw0/twoway/pkg/adapters/http"
	"github.com/aretw0/twoway/pkg/observability"
	"github.com/aretw0/twoway/pkg/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Start the HTTP API server",
	Long: `Serves the machine over HTTP: /health, /info, /machine, /graph, POST /evaluate,
POST /trace, the stepwise /traces API and, unless disabled, Prometheus metrics
on /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _, err := engineOptions(cmd, args)
		if err != nil {
			return err
		}

		handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if cfg.HTTP.Metrics {
			metrics := observability.NewMetrics()
			opts.Hooks = metrics.Hooks()
			handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(metrics.Handler()))
		}

		engine, err := cli.CreateEngine(opts)
		if err != nil {
			return err
		}
		sessions := session.NewManager(
			session.WithTTL(cfg.HTTP.TraceTTL),
			session.WithCapacity(cfg.HTTP.MaxTraces),
			session.WithLogger(logger),
		)
		handlerOpts = append(handlerOpts,
			httpAdapter.WithName(engine.Name),
			httpAdapter.WithSessions(sessions, func(word string) session.Trace {
				return engine.NewTrace(word)
			}),
		)

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpAdapter.NewHandler(engine, handlerOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting twoway server", "addr", srv.Addr, "machine", engine.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("twoway server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().Duration("trace-ttl", 10*time.Minute, "How long an idle stepwise trace is kept")
	serveCmd.Flags().Int("max-traces", 1000, "Maximum number of live stepwise traces")
}
