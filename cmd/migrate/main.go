// Command migrate applies the schema to the configured database.
package main

import (
	"flag"
	"log"

	"greenlifestyle/internal/config"
	"greenlifestyle/internal/database"
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Connect skips AutoMigrate in production, so run it explicitly here.
	if err := db.AutoMigrate(database.Models()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Schema migration completed")
}
