package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/config"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/database"
)

func main() {
	log.Println("Starting manual migration...")

	config.Init()
	db := config.GetDB()
	if db == nil {
		log.Fatal("Failed to get database instance")
	}
	defer db.Close()

	// Base tables first, then the workflow and assessment migrations
	executeSQLFile(db, "schema.sql")

	if err := database.RunMigrations(db, config.GetLogger()); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	log.Println("Manual migration completed successfully!")
}

func executeSQLFile(db *sql.DB, filePath string) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("Skipping %s: %v", filePath, err)
		return
	}

	log.Printf("Executing %s...", filePath)
	if _, err := db.Exec(string(content)); err != nil {
		log.Printf("Error executing %s: %v", filePath, err)
	} else {
		log.Printf("Successfully executed %s", filePath)
	}
}
