// server runs the dashboard HTTP API locally or on Cloud Run.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	shared "github.com/neotrasher/fitness-dashboard/pkg"
	"github.com/neotrasher/fitness-dashboard/pkg/api"
	"github.com/neotrasher/fitness-dashboard/pkg/bootstrap"
	"github.com/neotrasher/fitness-dashboard/pkg/infrastructure/oauth"
	"github.com/neotrasher/fitness-dashboard/pkg/integrations/strava"
	"github.com/neotrasher/fitness-dashboard/pkg/sync"
)

func main() {
	logger := bootstrap.NewLogger("server", false)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		logger.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	newSyncer := func() (api.SyncRunner, error) {
		cfg := svc.Config
		oauthCfg := oauth.NewStravaConfig(cfg.StravaClientID, cfg.StravaClientSecret)
		source := oauth.NewFirestoreTokenSource(svc.DB, shared.DefaultAthleteID, oauthCfg)
		client := strava.NewClient(oauth.NewClient(source, svc.DB, shared.DefaultAthleteID))
		return sync.NewEngine(svc.DB, client, svc.Pub, logger, sync.Options{
			DetailBudget: cfg.SyncDetailBudget,
			RequestDelay: cfg.SyncRequestDelay,
		}), nil
	}

	addr := ":" + envOr("PORT", "8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(svc, logger, newSyncer).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownCh
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
