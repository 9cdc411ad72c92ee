// Package app assembles the production process: logging router, score
// store, hub, simulation loop, and HTTP server.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	server "github.com/santiagobarrazas/CheeseShop"
	gamenet "github.com/santiagobarrazas/CheeseShop/internal/net"
	"github.com/santiagobarrazas/CheeseShop/internal/scores"
	"github.com/santiagobarrazas/CheeseShop/logging"
	"github.com/santiagobarrazas/CheeseShop/logging/sinks"
)

const (
	defaultAddr       = ":8080"
	defaultScoresPath = "highscores.json"
	shutdownTimeout   = 5 * time.Second
)

// Run boots the server and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	logger := log.New(os.Stdout, "[cheeseshop] ", log.LstdFlags)

	router, err := buildRouter()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			logger.Printf("logging router close: %v", err)
		}
	}()

	store := scores.Open(envOr("SCORES_PATH", defaultScoresPath), router)

	hubCfg := server.DefaultHubConfig()
	hubCfg.Logger = logger
	if seed := os.Getenv("SEED"); seed != "" {
		hubCfg.Game.Seed = seed
	}
	hubCfg.Game = hubCfg.Game.Normalized()
	hub := server.NewHub(hubCfg, store, router)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	handler := gamenet.NewHandler(hub, gamenet.Config{
		ClientDir: os.Getenv("CLIENT_DIR"),
		Logger:    logger,
	})
	srv := &http.Server{
		Addr:    envOr("ADDR", defaultAddr),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildRouter wires the event sinks: console always, newline-delimited JSON
// when LOG_JSON_PATH is set.
func buildRouter() (*logging.Router, error) {
	cfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)},
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSONSink(file, cfg.JSON.FlushInterval),
		})
		cfg.EnabledSinks = append(cfg.EnabledSinks, "json")
	}
	return logging.NewRouter(logging.SystemClock{}, cfg, named)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
