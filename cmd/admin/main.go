// Package main provides admin management utilities for PropertyAdda.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"propertyadda/internal/config"
	"propertyadda/internal/database"
	"propertyadda/internal/models"
	"propertyadda/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <username>   - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <username>    - Demote user from admin")
		fmt.Println("  go run ./cmd/admin list-admins          - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.StorageBackend == config.BackendMemory {
		log.Fatal("The memory backend lives inside the server process and has no out-of-band admin tooling")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store := storage.NewGormStore(db)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "promote":
		requireUsername()
		setRole(ctx, store, os.Args[2], models.RoleAdmin)

	case "demote":
		requireUsername()
		setRole(ctx, store, os.Args[2], models.RoleUser)

	case "list-admins":
		listAdmins(ctx, store)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func requireUsername() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run ./cmd/admin " + os.Args[1] + " <username>")
		os.Exit(1)
	}
}

func setRole(ctx context.Context, store *storage.GormStore, username, role string) {
	if err := store.SetUserRole(ctx, username, role); err != nil {
		log.Fatalf("Failed to set role for %q: %v", username, err)
	}
	fmt.Printf("User %q is now %s\n", username, role)
}

func listAdmins(ctx context.Context, store *storage.GormStore) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	count := 0
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			fmt.Printf("%d\t%s\t%s\n", u.ID, u.Username, u.Email)
			count++
		}
	}
	if count == 0 {
		fmt.Println("No admins found")
	}
}
