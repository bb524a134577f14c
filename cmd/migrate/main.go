package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"quotation-desk/internal/db"
	"quotation-desk/internal/settings"
)

func main() {
	_ = godotenv.Load()
	dbURL := os.Getenv("SETTINGS_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	profile := os.Getenv("SETTINGS_PROFILE")
	if profile == "" {
		profile = "default"
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		fmt.Printf("Failed to connect to DB: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := settings.NewPostgresStore(pool, profile).EnsureSchema(ctx); err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migration successful.")
}
