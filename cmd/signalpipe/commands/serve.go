package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwlim/signalpipe/internal/api"
	"github.com/jwlim/signalpipe/internal/api/handlers"
	"github.com/jwlim/signalpipe/internal/history"
	"github.com/jwlim/signalpipe/internal/pipeline"
	"github.com/jwlim/signalpipe/pkg/config"
	"github.com/jwlim/signalpipe/pkg/database"
	"github.com/jwlim/signalpipe/pkg/logger"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API for triggering pipeline runs and reading run
history.

Endpoints:
  GET  /health           - health check
  POST /api/runs         - trigger a synchronous run {"input": ..., "config": ...}
  GET  /api/runs         - recent run records
  GET  /api/runs/latest  - most recent run record
  GET  /api/runs/ws      - websocket stream of completed runs

Example:
  signalpipe serve
  signalpipe serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	log := logger.New(cfg)

	store := history.NewStore(cfg.History.Size)
	var repo *history.Repository
	if cfg.PersistHistory() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo = history.NewRepository(db.Pool)
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		log.Info("Run history persistence enabled")
	}
	recorder := history.NewRecorder(store, repo, log)

	hub := api.NewHub(log)
	defer hub.Close()
	recorder.AddListener(hub.Broadcast)

	pipe := pipeline.New(log)
	runsHandler := handlers.NewRunsHandler(pipe, recorder, log)
	router := api.NewRouter(runsHandler, hub, cfg, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s. Press Ctrl+C to stop.\n", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
