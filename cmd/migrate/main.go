// Command migrate applies the schema to the configured database. Production
// deployments run this explicitly; development servers migrate on boot.
package main

import (
	"log"

	"gather/internal/config"
	"gather/internal/database"
	"gather/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	observability.SetupLogging(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migration complete")
}
