package main

import (
	"context"
	"fmt"
	"log"

	"github.com/finkan/finkan-api/internal/config"
	"github.com/finkan/finkan-api/internal/database"
)

// One-shot sweep of expired provider tokens, for cron or manual cleanup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at < NOW()`)
	if err != nil {
		log.Fatalf("Failed to delete expired sessions: %v", err)
	}

	fmt.Printf("Removed %d expired sessions\n", result.RowsAffected())
}
