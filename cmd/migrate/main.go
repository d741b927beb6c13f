package main

import (
	"context"
	"time"

	mongoMigration "hotelbooking/internal/migrations/mongo"
	"hotelbooking/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if err := cfg.SetMongo(ctx); err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer cfg.GracefulShutdown(context.Background())

	cfg.Log.Info("Starting Mongo migration job")
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo(), cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Error("Migration failed", "error", err)
		return
	}
	cfg.Log.Info("Migration completed successfully")
}
