package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"pvmail/internal/config"
	"pvmail/internal/database"
	"pvmail/internal/logger"
	"pvmail/internal/service"
)

// pvmail-migrate backfills entries.group_id from the denormalized group
// name for rule dumps that predate the field.
func main() {
	url := flag.String("url", "", "database connection string (overrides DB_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *url != "" {
		cfg.Database.URL = *url
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "pvmail-migrate")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	store := service.NewStore(db, log)
	updated, err := store.BackfillGroupIDs(context.Background())
	if err != nil {
		log.Fatal("Backfill failed", zap.Error(err))
	}
	log.Info("backfill completed", zap.Int("updated", updated))
}
