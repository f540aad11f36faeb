package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"pvmail/internal/config"
	"pvmail/internal/database"
	"pvmail/internal/logger"
	"pvmail/internal/repository"
	"pvmail/internal/schema"
)

// pvmail-init provisions the alerting database: the conditions, groups and
// entries tables with their uniqueness constraints. One-shot: it fails fast
// against an already provisioned database.
func main() {
	url := flag.String("url", "", "database connection string (overrides DB_URL)")
	seed := flag.Bool("seed", false, "seed the supported condition catalog after provisioning")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *url != "" {
		cfg.Database.URL = *url
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "pvmail-init")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	ctx := context.Background()

	if err := schema.NewInitializer(db, log).Run(ctx); err != nil {
		log.Fatal("Provisioning failed", zap.Error(err))
	}

	if *seed {
		conditions := repository.NewConditionsRepository(db, log)
		seeded, err := conditions.SeedConditions(ctx)
		if err != nil {
			log.Fatal("Condition seeding failed", zap.Error(err))
		}
		log.Info("condition catalog seeded", zap.Int("seeded", seeded))
	}
}
