package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docextract/internal/handlers"
	"docextract/internal/http"
	"docextract/internal/service"
)

// shutdownTimeout bounds graceful shutdown of the API server.
const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			extractService := service.NewExtractService(a.pipeline, a.runs, service.Options{
				Profiles:       a.cfg.Profiles,
				DefaultProfile: a.cfg.DefaultProfile,
				Source:         sourceConfig(a.cfg),
				OutputDir:      a.cfg.OutputDir,
				InboxDir:       a.cfg.InboxDir,
				Detector:       a.detector,
			})

			// Create router with dependencies
			router := http.NewRouter(&http.Deps{
				ExtractService: extractService,
				Workbooks:      a.exporter,
				HealthChecks:   map[string]handlers.Check{"database": a.ping},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Start API server
			srv := &nethttp.Server{
				Addr:              ":" + a.cfg.APIPort,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				slog.Info("starting API server", "addr", srv.Addr)
				slog.Debug("LLM configuration", "base_url", a.cfg.LLMBaseURL, "model", a.cfg.LLMModelName)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down API server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
