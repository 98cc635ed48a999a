package database

import (
	"fmt"
	"log"

	"gaurosa-backend/shared/config"
	"gaurosa-backend/shared/database/models"
	authmodels "gaurosa-backend/shared/database/models/auth"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase connects to PostgreSQL and runs migrations
func InitDatabase() error {
	cfg := config.GetConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Europe/Rome",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	logLevel := logger.Silent
	if !cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	log.Println("✅ Database connected successfully")

	return Migrate(db)
}

// GetDB returns the connected database handle
func GetDB() *gorm.DB {
	return DB
}

// CloseDatabase closes the underlying connection pool
func CloseDatabase() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// Migrate runs auto migrations for all models
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	err := db.AutoMigrate(
		&models.Customer{},
		&authmodels.RefreshToken{},
		&authmodels.PasswordReset{},
		&authmodels.LoginAttempt{},
		&models.Brand{},
		&models.Supplier{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductVariant{},
		&models.Order{},
		&models.SyncLog{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("✅ Database migrations completed")
	return nil
}
