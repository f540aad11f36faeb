package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"pvmail/internal/config"
	"pvmail/internal/database"
	"pvmail/internal/export"
	"pvmail/internal/logger"
)

// pvmail-export writes every table of the alerting database to one record
// file per table in the output directory.
func main() {
	outDir := flag.String("out", "", "output directory (overrides EXPORT_DIR)")
	format := flag.String("format", "", `export format, "json" or "xlsx" (overrides EXPORT_FORMAT)`)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *outDir != "" {
		cfg.Export.OutDir = *outDir
	}
	if *format != "" {
		cfg.Export.Format = *format
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "pvmail-export")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	exporter := export.NewExporter(db, log)
	if err := exporter.Run(context.Background(), cfg.Export.OutDir, cfg.Export.Format); err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}
}
