package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/scanmaster/internal/adapter/driven/gemini"
	"github.com/ericfisherdev/scanmaster/internal/adapter/driven/linkpreview"
	"github.com/ericfisherdev/scanmaster/internal/adapter/driven/qrrender"
	httphandler "github.com/ericfisherdev/scanmaster/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/scanmaster/internal/adapter/driving/web"
	"github.com/ericfisherdev/scanmaster/internal/application"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and REST API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg := appConfig
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"summarizer", cfg.HasGeminiKey(),
		"debounce_window", cfg.DebounceWindow,
		"summary_timeout", cfg.SummaryTimeout,
	)

	// 1. Open database and restore history.
	db, history, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// 2. Wire optional collaborators. Nil interfaces disable them.
	var summarizer driven.Summarizer
	if cfg.HasGeminiKey() {
		client, err := gemini.NewClient(gemini.Config{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
		})
		if err != nil {
			return err
		}
		summarizer = client
		slog.Info("summarizer enabled", "model", cfg.GeminiModel)
	} else {
		slog.Info("no API key configured, scans will not be annotated")
	}

	var previewer driven.LinkPreviewer
	if cfg.LinkPreview {
		previewer = linkpreview.NewFetcher()
	}

	// 3. Create services.
	session := application.NewScanSession(history, summarizer, previewer, application.SessionOptions{
		DebounceWindow: cfg.DebounceWindow,
		SummaryTimeout: cfg.SummaryTimeout,
	}, slog.Default())
	generator := application.NewGeneratorService(qrrender.NewRenderer())

	// 4. Register API and GUI routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(session, generator, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(session, generator, slog.Default()))
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("scanmaster started", "listen_addr", cfg.ListenAddr, "records", history.Len())

	// 5. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			session.Close()
			return err
		}
	}

	// 6. Graceful shutdown with 10s timeout: drain HTTP, then let in-flight
	// summaries land before the database closes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	if err := session.Wait(shutdownCtx); err != nil {
		slog.Warn("abandoning in-flight summaries", "error", err)
	}
	session.Close()

	slog.Info("shutdown complete")
	return nil
}
