// Seed the package catalog with the default EUNACOM offerings. Seeding is
// idempotent: a catalog kind that already has rows is left untouched, so the
// script can run on every deploy.
//
// Usage: go run ./scripts/seed_catalog

package main

import (
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/service"
	"eunacom_backend/pkg/database"
	"eunacom_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	catalog := service.NewCatalogService(repository.NewPackageRepository(db))
	if err := catalog.SeedDefaults(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	listing, err := catalog.ListAll()
	if err != nil {
		log.Fatalf("Failed to list catalog: %v", err)
	}
	log.Printf("Catalog ready: %d control, %d exam, %d mock exam package(s)",
		len(listing.Control), len(listing.Exam), len(listing.MockExam))
}
