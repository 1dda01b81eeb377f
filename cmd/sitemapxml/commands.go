package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/sitemap-xml/internal/api"
	"github.com/romangod6/sitemap-xml/internal/metrics"
	"github.com/romangod6/sitemap-xml/internal/scheduler"
	"github.com/romangod6/sitemap-xml/internal/sitemap"
	"github.com/romangod6/sitemap-xml/internal/storage"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the sitemap of every configured site and register them in robots.txt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.manager.Run(cmd.Context())
		if err != nil {
			return err
		}
		if failed := countFailed(results); failed > 0 {
			return fmt.Errorf("%d of %d sitemaps failed to build", failed, len(results))
		}
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Notify the configured search engines of every site's sitemap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		submitted, err := a.manager.SubmitToSearchEngines(cmd.Context())
		if err != nil {
			return err
		}
		if !submitted {
			a.logger.Info("Sitemaps were not submitted")
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load a YAML content fixture into the content repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := storage.LoadFixture(cmd.Context(), a.repo, f)
		if err != nil {
			return err
		}
		a.logger.Info("Loaded fixture", "items", n, "file", args[0])
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the trigger API and rebuild sitemaps periodically",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sched, err := scheduler.New()
		if err != nil {
			return err
		}
		if _, err := sched.ScheduleEvery("sitemap-rebuild", a.cfg.GetRebuildInterval(), func() {
			a.logger.Info("Starting scheduled sitemap build...")
			runAll(ctx, a)
		}); err != nil {
			return err
		}
		sched.Start(ctx)

		server := api.NewServer(a.cfg.Server.Port, a.manager, metrics.HTTPHandler(a.registry))

		// Start the API server
		go func() {
			a.logger.Info("Starting API server", "port", a.cfg.Server.Port)
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("API server stopped", "error", err)
				cancel()
			}
		}()

		waitForShutdown(ctx, cancel, server, sched)
		return nil
	},
}

func runAll(ctx context.Context, a *app) {
	results, err := a.manager.Run(ctx)
	if err != nil {
		a.logger.Error("Failed to register sitemaps in robots file", "error", err)
	}
	a.logger.Info("Sitemap build completed", "sites", len(results), "failed", countFailed(results))

	if _, err := a.manager.SubmitToSearchEngines(ctx); err != nil {
		a.logger.Error("Failed to submit sitemaps", "error", err)
	}
}

func countFailed(results []sitemap.BuildResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, server *api.Server, sched *scheduler.Scheduler) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	cancel()

	// Graceful server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error stopping scheduler: %v\n", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error shutting down server: %v\n", err)
	}
}
