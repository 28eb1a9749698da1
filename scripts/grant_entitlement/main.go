// Grant a package entitlement to a user, or verify who owns a purchase.
//
// Usage:
//
//	go run ./scripts/grant_entitlement -email user@example.com -package 2
//	go run ./scripts/grant_entitlement -verify 15 -email user@example.com
//	go run ./scripts/grant_entitlement -verify 15 -email user@example.com -fix

package main

import (
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/service"
	"eunacom_backend/internal/util"
	"eunacom_backend/pkg/database"
	"eunacom_backend/pkg/logger"
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	email := flag.String("email", "", "user email")
	packageID := flag.Uint("package", 0, "control package id to grant")
	verify := flag.Uint("verify", 0, "purchase id to verify against -email")
	fix := flag.Bool("fix", false, "reassign the purchase to -email when the owner does not match")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}
	if *verify == 0 && *packageID == 0 {
		log.Fatal("either -package or -verify is required")
	}

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

	entitlements := service.NewEntitlementService(
		repository.NewPurchaseRepository(db),
		repository.NewPackageRepository(db),
		repository.NewUserRepository(db),
	)

	if *verify != 0 {
		purchase, err := entitlements.VerifyOwner(*verify, *email, *fix)
		if err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		log.Printf("Purchase %d belongs to %s (status %s, %d/%d units used, created %s)",
			purchase.ID, *email, purchase.Status, purchase.UsedUnits, purchase.TotalUnits,
			purchase.CreatedAt.Format(util.DateFormat))
		return
	}

	purchase, err := entitlements.Grant(*email, uint(*packageID))
	if err != nil {
		log.Fatalf("Grant failed: %v", err)
	}
	log.Printf("Granted package %d to %s: purchase %d, %d unit(s), status %s",
		*packageID, *email, purchase.ID, purchase.TotalUnits, purchase.Status)
}
