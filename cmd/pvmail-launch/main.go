package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pvmail/internal/config"
	"pvmail/internal/launcher"
	"pvmail/internal/logger"
)

// pvmail-launch resolves the mail credentials and the database connection
// string, then hands off to the external alerting program. The child's exit
// code becomes this process's exit code.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "pvmail-launch")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Forward termination signals to the child via context cancellation.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("Received signal, stopping alerting program",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	l := launcher.New(cfg.Launcher.Executable, cfg.Launcher.SecretsDir, cfg.Database.DSN(), log)
	code, err := l.Run(ctx)
	if err != nil {
		log.Fatal("Launch failed", zap.Error(err))
	}

	log.Sync()
	os.Exit(code)
}
