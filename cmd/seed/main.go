// Command seed loads curated local officials from a JSON file into the
// officials database. Existing records with the same ID are left untouched.
//
// Usage:
//
//	DATABASE_URL=postgres://... seed officials.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	officialsModels "represent/internal/officials/models"
	officialsStore "represent/internal/officials/store"
	"represent/internal/platform/config"
	"represent/internal/platform/logger"
	"represent/pkg/platform/sentinel"
)

func main() {
	log := logger.New()

	if len(os.Args) != 2 {
		log.Error("usage: seed <officials.json>")
		os.Exit(2)
	}

	cfg := config.FromEnv()
	if cfg.Postgres.URL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(2)
	}

	payload, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Error("read seed file", "error", err)
		os.Exit(1)
	}
	var officials []officialsModels.Official
	if err := json.Unmarshal(payload, &officials); err != nil {
		log.Error("parse seed file", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := officialsStore.NewPostgres(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	created, skipped := 0, 0
	now := time.Now()
	for i := range officials {
		official := &officials[i]
		if official.ID == "" {
			official.ID = officialsModels.NewID()
		}
		official.CreatedAt = now
		official.UpdatedAt = now

		err := store.Create(ctx, official)
		switch {
		case err == nil:
			created++
		case errors.Is(err, sentinel.ErrConflict):
			skipped++
		default:
			log.Error("seed official", "official_id", official.ID, "error", err)
			os.Exit(1)
		}
	}

	log.Info("seed complete", slog.Int("created", created), slog.Int("skipped", skipped))
}
