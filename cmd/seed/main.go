package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"drive-assistant-be/internal/model"
	"drive-assistant-be/pkg/database"
)

const (
	demoEmail    = "demo@drive-assistant.local"
	demoPassword = "demo12345"
)

// Seeds a local demo account so the API is usable right after migrate
// without going through the Microsoft login flow.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[SEED] no .env file found, relying on environment")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("[SEED] DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatalf("[SEED] failed to connect to database: %v", err)
	}

	var existing int64
	if err := db.Model(&model.User{}).Where("email = ?", demoEmail).Count(&existing).Error; err != nil {
		log.Fatalf("[SEED] lookup failed: %v", err)
	}
	if existing > 0 {
		log.Printf("[SEED] demo user %s already exists, nothing to do", demoEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[SEED] failed to hash password: %v", err)
	}
	hashStr := string(hash)

	user := model.User{
		Email:        demoEmail,
		PasswordHash: &hashStr,
		FullName:     "Demo User",
		Role:         "user",
		Status:       "active",
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("[SEED] failed to create demo user: %v", err)
	}

	log.Printf("[SEED] created demo user %s (password %q)", demoEmail, demoPassword)
}
