// Command main runs the store seeder for PropertyAdda.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"propertyadda/internal/config"
	"propertyadda/internal/database"
	"propertyadda/internal/seed"
	"propertyadda/internal/storage"
)

func main() {
	demoUsers := flag.Int("users", 10, "Number of demo users to create")
	demoProperties := flag.Int("properties", 40, "Number of demo listings to create")
	catalogOnly := flag.Bool("catalog-only", false, "Seed only the baseline catalog and admin account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StorageBackend == config.BackendMemory {
		log.Fatal("The memory backend lives inside the server process; start the server with SEED_DEMO_DATA=true instead")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store := storage.NewGormStore(db)
	defer store.Close()

	opts := seed.Options{DemoUsers: *demoUsers, DemoProperties: *demoProperties}
	if *catalogOnly {
		opts = seed.Options{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seed.Seed(ctx, store, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding completed successfully")
}
