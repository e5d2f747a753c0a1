package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	ent "github.com/labflow/labflow/ent/generated"
	"github.com/labflow/labflow/ent/generated/migrate"
	"github.com/labflow/labflow/internal/models"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Build connection string
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "labflow"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	// Connect to database
	drv, err := sql.Open(dialect.Postgres, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer drv.Close()

	// Create Ent client
	client := ent.NewClient(ent.Driver(drv))
	defer client.Close()

	ctx := context.Background()

	// Run migrations
	log.Println("Running database migrations...")
	if err := client.Schema.Create(
		ctx,
		migrate.WithDropIndex(true),
		migrate.WithDropColumn(true),
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed")

	// Report what the tasks table holds, as a quick sanity check.
	if err := reportTaskCounts(dsn); err != nil {
		log.Printf("Skipping task report: %v", err)
	}
}

// reportTaskCounts prints an active/deleted breakdown by status.
func reportTaskCounts(dsn string) error {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect for report: %w", err)
	}
	defer db.Close()

	var total, deleted int64
	if err := db.Get(&total, "SELECT COUNT(*) FROM tasks"); err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	if err := db.Get(&deleted, "SELECT COUNT(*) FROM tasks WHERE is_deleted"); err != nil {
		return fmt.Errorf("count deleted tasks: %w", err)
	}

	var byStatus []models.StatusCount
	if err := db.Select(&byStatus,
		"SELECT status, COUNT(*) AS count FROM tasks WHERE NOT is_deleted GROUP BY status ORDER BY status",
	); err != nil {
		return fmt.Errorf("count tasks by status: %w", err)
	}

	log.Printf("Tasks: %d total, %d soft-deleted", total, deleted)
	for _, sc := range byStatus {
		log.Printf("  %-12s %d", sc.Status, sc.Count)
	}

	var recent []models.Task
	if err := db.Select(&recent,
		"SELECT * FROM tasks ORDER BY COALESCE(updated_at, created_at) DESC LIMIT 5",
	); err != nil {
		return fmt.Errorf("select recent tasks: %w", err)
	}
	for _, t := range recent {
		log.Printf("  #%d [%s/%s] %s", t.ID, t.Status, t.Priority, t.Title)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
