package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmlago/tasksmith/internal/api"
	"github.com/jmlago/tasksmith/internal/config"
	"github.com/jmlago/tasksmith/internal/generate"
	"github.com/jmlago/tasksmith/internal/jira"
	"github.com/jmlago/tasksmith/internal/metrics"
	"github.com/jmlago/tasksmith/internal/pipeline"
	"github.com/jmlago/tasksmith/internal/templates"
	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	tpls, err := templates.LoadFile(cfg.TemplatesFile)
	if err != nil {
		log.Error("invalid templates", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	tracker := jira.NewClient(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraAPIToken)
	gen := generate.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.ModelRPS)
	rec := metrics.NewRecorder()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, gen, tracker, tpls, rec, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, gen, rec, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		gen.Close()
		tracker.Close()
	}()

	log.Info("starting tasksmith", "port", cfg.Port, "templates", len(tpls))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
