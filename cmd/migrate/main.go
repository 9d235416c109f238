package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"drive-assistant-be/internal/model"
	"drive-assistant-be/pkg/database"
)

// Schema setup that must run before AutoMigrate: extensions and enum types
// GORM cannot create on its own.
var setupStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$ BEGIN
		CREATE TYPE user_role AS ENUM ('user', 'admin');
	EXCEPTION
		WHEN duplicate_object THEN null;
	END $$;`,
	`DO $$ BEGIN
		CREATE TYPE user_status AS ENUM ('active', 'inactive', 'suspended');
	EXCEPTION
		WHEN duplicate_object THEN null;
	END $$;`,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MIGRATE] no .env file found, relying on environment")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("[MIGRATE] DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatalf("[MIGRATE] failed to connect to database: %v", err)
	}

	fmt.Println("[MIGRATE] running schema setup...")
	for _, stmt := range setupStatements {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("[MIGRATE] setup statement failed: %v", err)
		}
	}

	fmt.Println("[MIGRATE] running auto migration...")
	err = db.AutoMigrate(
		&model.User{},
		&model.UserProvider{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.GeneratedReport{},
		&model.Notification{},
	)
	if err != nil {
		log.Fatalf("[MIGRATE] auto migration failed: %v", err)
	}

	fmt.Println("[MIGRATE] migration completed successfully")
}
