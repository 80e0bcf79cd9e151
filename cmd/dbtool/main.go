package main

import (
	"context"
	"database/sql"
	"fmt"
	"parcel-dispatch-service/internal/adapters/repositories"
	"parcel-dispatch-service/internal/app"
	"parcel-dispatch-service/internal/config"
	"parcel-dispatch-service/internal/platform/db"
	"parcel-dispatch-service/internal/platform/obs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}
	if err := obs.SetupLogging(config.Get("LOG_LEVEL", "info")); err != nil {
		logrus.Fatal(err)
	}
	log := logrus.WithField("module", "dbtool")

	src := app.SourcesFromEnv()
	if src.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(src.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := initAndSeed(ctx, conn, src); err != nil {
		log.Fatal(err)
	}

	counts, err := repositories.CountRows(ctx, conn)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{
		"packages":  counts["packages"],
		"addresses": counts["addresses"],
		"distances": counts["distances"],
	}).Info("Seeding complete.")
}

func initAndSeed(ctx context.Context, conn *sql.DB, src app.Sources) error {
	log := logrus.WithField("module", "dbtool")

	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info("Schema ready.")

	log.WithField("path", src.PackagesPath).Info("Seeding packages...")
	if err := repositories.SeedPackagesFromCSV(ctx, conn, src.PackagesPath); err != nil {
		return fmt.Errorf("seeding packages failed: %w", err)
	}

	log.WithFields(logrus.Fields{
		"addresses": src.AddressesPath,
		"distances": src.DistancesPath,
	}).Info("Seeding distances...")
	if err := repositories.SeedDistancesFromCSV(ctx, conn, src.AddressesPath, src.DistancesPath); err != nil {
		return fmt.Errorf("seeding distances failed: %w", err)
	}

	return nil
}
