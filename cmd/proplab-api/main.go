package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	_ "github.com/iceprop/prop-lab/docs"
	"github.com/iceprop/prop-lab/internal/app"
	"github.com/iceprop/prop-lab/internal/config"
	"github.com/iceprop/prop-lab/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	deps, err := app.Connect(connectCtx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.Pool.Start(ctx)
	defer deps.Pool.Stop()

	h := handlers.New(handlers.Config{
		ArchiveQueue: deps.Pool,
		Checks: map[string]handlers.HealthCheck{
			"postgres":   deps.Postgres.Ping,
			"clickhouse": deps.ClickHouse.Ping,
			"redis":      func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() },
		},
		Installer: deps.Installer,
		Logger:    logger,
		Props:     deps.Props,
		Roster:    deps.Roster,
		Board:     deps.Board,
	})

	router := h.Routes()
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("API server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		sugar.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	sugar.Info("API server stopped")
	return nil
}
