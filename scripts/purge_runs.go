package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// Maintenance script: clears abandoned generation run locks and old
// completed run rows so the table stays small.
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Connect to database
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("✅ Connected to database")

	// Step 1: Mark stale running claims as failed
	result, err := db.Exec(`
		UPDATE generation_runs
		SET status = 'failed', error = 'claim abandoned', finished_at = NOW()
		WHERE status = 'running'
		AND claimed_at < NOW() - INTERVAL '15 minutes'
	`)
	if err != nil {
		log.Fatal("❌ Failed to clear stale claims:", err)
	}
	rows, _ := result.RowsAffected()
	fmt.Printf("🗑️  Cleared %d stale running claims\n", rows)

	// Step 2: Delete finished run rows older than 30 days
	result, err = db.Exec(`
		DELETE FROM generation_runs
		WHERE status IN ('completed', 'failed')
		AND finished_at < NOW() - INTERVAL '30 days'
	`)
	if err != nil {
		log.Fatal("❌ Failed to delete old runs:", err)
	}
	rows, _ = result.RowsAffected()
	fmt.Printf("🗑️  Deleted %d old run rows\n", rows)

	// Verify
	var running int
	db.QueryRow("SELECT COUNT(*) FROM generation_runs WHERE status = 'running'").Scan(&running)
	fmt.Printf("\n📊 Runs still marked running: %d\n", running)

	fmt.Println("\n✅ Run table cleanup complete!")
}
