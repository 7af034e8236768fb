package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"monkey-registry/internal/config"
	"monkey-registry/internal/platform/logger"
	"monkey-registry/internal/router"
)

func main() {
	// .env opcional para dev local
	_ = godotenv.Load()

	lg := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	cfg := config.FromEnv()
	repo, err := config.Open(context.Background(), cfg)
	if err != nil {
		lg.Error("open storage backend", map[string]any{
			"backend": cfg.NormalizedBackend(),
			"error":   err.Error(),
		})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{Repo: repo})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lg.Info("starting server", map[string]any{
		"addr":    addr,
		"backend": cfg.NormalizedBackend(),
	})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
