// Backfill confidence scores for question variations that predate scoring.
//
// Pass one copies the score from each variation's latest sweep result. Pass
// two derives a score from the parent lineage for variations that were never
// swept directly. The script is safe to rerun: already scored variations are
// never touched.
//
// Usage: go run ./scripts/backfill_confidence

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

	backfill := service.NewBackfillService(
		repository.NewVariationRepository(db),
		repository.NewSweepRepository(db),
	)

	log.Println("Starting confidence backfill...")
	report, err := backfill.Run()
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}

	log.Printf("Direct updates:    %d", report.DirectUpdated)
	log.Printf("Inherited updates: %d", report.InheritedUpdated)
	log.Printf("Skipped:           %d", report.Skipped)
	if d := report.Distribution; d != nil {
		log.Printf("Distribution: none=%d low=%d medium=%d high=%d (total %d)",
			d.None, d.Low, d.Medium, d.High, d.Total)
	}
	log.Println("Done!")
}
