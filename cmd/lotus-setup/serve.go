package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/lotus-setup/internal/duckdb"
	"github.com/tinytelemetry/lotus-setup/internal/httpserver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the run history over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg appConfig) error {
	e, err := openEnv(cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer e.Close()

	srv := httpserver.NewServer(cfg.APIAddr, e.history, e.history.Snapshots(), e.logger.WithPrefix("http"))
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start http api: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	if cleaner := duckdb.NewRetentionCleaner(e.history, cfg.HistoryRetention); cleaner != nil {
		g.Go(func() error { return cleaner.Run(ctx) })
	}
	g.Go(func() error {
		<-ctx.Done()
		e.logger.Info("shutting down")
		return srv.Stop()
	})
	return g.Wait()
}
