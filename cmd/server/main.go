package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/storeops/ads-ingest/internal/config"
	"github.com/storeops/ads-ingest/internal/httpx"
	"github.com/storeops/ads-ingest/internal/ingest"
	"github.com/storeops/ads-ingest/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	svc := ingest.NewService(cl, st, logger, cfg)

	r := httpx.NewRouter(logger, svc, st)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port), slog.String("currency", cfg.DisplayCurrency))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
