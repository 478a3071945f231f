// Command stockroom-seed resets the database from the ordered fixture files.
// It is destructive: every entity table is wiped before reloading. Run it
// only against an environment you mean to reset.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"stockroom/internal/config"
	applog "stockroom/internal/log"
	"stockroom/internal/seed"
	"stockroom/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentSeed)
	applog.SetDefault(logger)

	cfg := config.Load()

	dataDir := flag.String("data", cfg.SeedDataDir, "directory holding the fixture JSON files")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "path to the SQLite database")
	flag.Parse()

	repo, err := storage.Open(*dbPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	// The connection is released on every exit path, success or failure.
	defer repo.Close()

	logger.Info("Seeding database", "db", *dbPath, "data", *dataDir)

	if err := seed.New(repo, *dataDir).Run(context.Background()); err != nil {
		logger.Error("Seeding failed", "error", err)
		repo.Close()
		os.Exit(1)
	}

	logger.Info("Seeding complete")
}
