// Check connectivity to the external APIs the platform depends on: the LLM
// endpoint used by the QA sweep worker, the ads API and the analytics API.
// Exits non-zero when any check fails.
//
// Usage: go run ./scripts/api_doctor

package main

import (
	"context"
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/service"
	"eunacom_backend/pkg/logger"
	"log"
	"os"
	"time"

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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	connectivity := service.NewConnectivityService(&cfg)
	results := connectivity.CheckAll(ctx)

	failed := 0
	for _, r := range results {
		status := "OK"
		if !r.OK {
			status = "FAIL"
			failed++
		}
		log.Printf("[%s] %-10s %4dms  %s", status, r.Target, r.LatencyMs, r.Message)
		if r.Hint != "" {
			log.Printf("       hint: %s", r.Hint)
		}
	}

	if failed > 0 {
		log.Fatalf("%d of %d checks failed", failed, len(results))
	}
	log.Printf("All %d checks passed", len(results))
}
