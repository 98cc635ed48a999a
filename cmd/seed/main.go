package main

import (
	"log"

	"gaurosa-backend/shared/config"
	"gaurosa-backend/shared/database"
)

func main() {
	log.Println("🌱 Starting database seeding...")

	config.LoadConfig()

	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.SeedDatabase(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}
