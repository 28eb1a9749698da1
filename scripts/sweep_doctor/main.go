// Diagnose the QA sweep pipeline: find runs stuck in RUNNING, optionally mark
// them FAILED, and print aggregate sweep health.
//
// Usage:
//
//	go run ./scripts/sweep_doctor                 # list stuck runs
//	go run ./scripts/sweep_doctor -heal           # mark stuck runs FAILED
//	go run ./scripts/sweep_doctor -report         # full health report
//	go run ./scripts/sweep_doctor -stale-minutes 60

package main

import (
	"encoding/json"
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/service"
	"eunacom_backend/internal/util"
	"eunacom_backend/pkg/database"
	"eunacom_backend/pkg/logger"
	"flag"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func main() {
	heal := flag.Bool("heal", false, "mark stuck runs as FAILED instead of just listing them")
	report := flag.Bool("report", false, "print confidence distribution, severity histogram and token totals")
	staleMinutes := flag.Int("stale-minutes", 0, "minutes without a new result before a RUNNING run counts as stuck (default from config)")
	flag.Parse()

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

	doctor := service.NewSweepDoctorService(
		repository.NewSweepRepository(db),
		repository.NewVariationRepository(db),
	)

	minutes := *staleMinutes
	if minutes <= 0 {
		minutes = cfg.QA.StuckRunMinutes
	}
	if minutes <= 0 {
		minutes = 30
	}
	staleAfter := time.Duration(minutes) * time.Minute

	if *heal {
		healed, err := doctor.HealStuckRuns(staleAfter)
		if err != nil {
			log.Fatalf("Failed to heal stuck runs: %v", err)
		}
		for _, run := range healed {
			log.Printf("Marked FAILED: run %s (started %s)", run.ID, run.StartedAt.Format(util.TimeFormat))
		}
		log.Printf("Healed %d stuck run(s)", len(healed))
	} else {
		stuck, err := doctor.StuckRuns(staleAfter)
		if err != nil {
			log.Fatalf("Failed to list stuck runs: %v", err)
		}
		for _, run := range stuck {
			log.Printf("Stuck: run %s (started %s, no result in %dm)", run.ID, run.StartedAt.Format(util.TimeFormat), minutes)
		}
		log.Printf("%d stuck run(s)", len(stuck))
	}

	if *report {
		rep, err := doctor.Report(service.SweepReportOptions{Distribution: true, Severity: true, Tokens: true})
		if err != nil {
			log.Fatalf("Failed to build report: %v", err)
		}
		out, _ := json.MarshalIndent(rep, "", "  ")
		log.Printf("Sweep health report:\n%s", out)
	}
}
