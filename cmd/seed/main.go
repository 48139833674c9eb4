package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/user-profile-service/config"
	"github.com/oksasatya/user-profile-service/db"
	pginfra "github.com/oksasatya/user-profile-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
)

// Applies migrations and loads the geography reference data. Safe to rerun.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	seeded, err := pginfra.SeedGeography(ctx, pool, db.Reference)
	if err != nil {
		log.Fatalf("failed to seed geography: %v", err)
	}
	if seeded {
		logger.Info("geography reference data seeded")
		return
	}
	logger.Info("geography already present, nothing to do")
}
