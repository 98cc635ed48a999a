package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT / tokens
	JWTSecret                    string
	AccessTokenExpireMinutes     string
	RefreshTokenExpireDays       string
	VerificationTokenExpireHours string
	PasswordResetExpireHours     string

	// Cookies
	AccessCookieName  string
	RefreshCookieName string

	// Frontend URL (verification / reset links in emails)
	FrontendURL string

	// MazGest integration
	MazGestAPIURL   string
	MazGestAPIKey   string
	SyncAPIKey      string
	MazGestAssetURL string

	// Customer sync worker
	SyncWorkerIntervalMinutes string

	// Google OAuth
	GoogleClientID string

	// Stripe
	StripeWebhookSecret string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Email Configuration
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPUseTLS    bool

	// Rate Limiting
	RateLimitMaxRequests          string
	RateLimitTimeWindowSeconds    string
	RateLimitBlockDurationMinutes string

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Register Rate Limiting
	RegisterRateLimitMaxAttempts string
	RegisterRateLimitWindowHours string
	RegisterRateLimitBlockHours  string

	// Password Reset Rate Limiting
	PasswordResetMaxAttempts   string
	PasswordResetWindowMinutes string
	PasswordResetBlockHours    string

	// MinIO Configuration
	MinIOServerURL    string
	MinIOPublicURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "gaurosa"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT / tokens
		JWTSecret:                    getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AccessTokenExpireMinutes:     getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "15"),
		RefreshTokenExpireDays:       getEnv("REFRESH_TOKEN_EXPIRE_DAYS", "7"),
		VerificationTokenExpireHours: getEnv("VERIFICATION_TOKEN_EXPIRE_HOURS", "24"),
		PasswordResetExpireHours:     getEnv("PASSWORD_RESET_EXPIRE_HOURS", "1"),

		// Cookies
		AccessCookieName:  getEnv("ACCESS_COOKIE_NAME", "gaurosa_auth"),
		RefreshCookieName: getEnv("REFRESH_COOKIE_NAME", "gaurosa_refresh"),

		// Frontend URL
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// MazGest integration
		MazGestAPIURL:   getEnv("MAZGEST_API_URL", "http://localhost:5000"),
		MazGestAPIKey:   getEnv("MAZGEST_API_KEY", ""),
		SyncAPIKey:      getEnv("SYNC_API_KEY", ""),
		MazGestAssetURL: getEnv("MAZGEST_ASSET_URL", "https://api.mazgest.org"),

		// Customer sync worker
		SyncWorkerIntervalMinutes: getEnv("SYNC_WORKER_INTERVAL_MINUTES", "5"),

		// Google OAuth
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		// Stripe
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Email Configuration
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@gaurosa.it"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Gaurosa Gioielli"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:    getEnvAsBool("SMTP_USE_TLS", false),

		// Rate Limiting - general
		RateLimitMaxRequests:          getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds:    getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),
		RateLimitBlockDurationMinutes: getEnv("RATE_LIMIT_BLOCK_DURATION_MINUTES", "15"),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "300"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "15"),

		// Register Rate Limiting
		RegisterRateLimitMaxAttempts: getEnv("REGISTER_RATE_LIMIT_MAX_ATTEMPTS", "3"),
		RegisterRateLimitWindowHours: getEnv("REGISTER_RATE_LIMIT_WINDOW_HOURS", "24"),
		RegisterRateLimitBlockHours:  getEnv("REGISTER_RATE_LIMIT_BLOCK_HOURS", "48"),

		// Password Reset Rate Limiting
		PasswordResetMaxAttempts:   getEnv("PASSWORD_RESET_MAX_ATTEMPTS", "3"),
		PasswordResetWindowMinutes: getEnv("PASSWORD_RESET_WINDOW_MINUTES", "60"),
		PasswordResetBlockHours:    getEnv("PASSWORD_RESET_BLOCK_HOURS", "24"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIOPublicURL:    getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "gaurosa-products"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetAccessTokenExpire returns the access token lifetime.
func (c *Config) GetAccessTokenExpire() time.Duration {
	return time.Duration(atoiOr(c.AccessTokenExpireMinutes, 15)) * time.Minute
}

// GetRefreshTokenExpire returns the refresh token lifetime.
func (c *Config) GetRefreshTokenExpire() time.Duration {
	return time.Duration(atoiOr(c.RefreshTokenExpireDays, 7)) * 24 * time.Hour
}

// GetVerificationTokenExpire returns the email verification token lifetime.
func (c *Config) GetVerificationTokenExpire() time.Duration {
	return time.Duration(atoiOr(c.VerificationTokenExpireHours, 24)) * time.Hour
}

// GetPasswordResetExpire returns the password reset token lifetime.
func (c *Config) GetPasswordResetExpire() time.Duration {
	return time.Duration(atoiOr(c.PasswordResetExpireHours, 1)) * time.Hour
}

// GetSyncWorkerInterval returns the customer sync poller interval.
func (c *Config) GetSyncWorkerInterval() time.Duration {
	return time.Duration(atoiOr(c.SyncWorkerIntervalMinutes, 5)) * time.Minute
}

// GetIntField returns a named rate-limit setting as integer
func (c *Config) GetIntField(key string, defaultValue int) int {
	fields := map[string]string{
		"RateLimitMaxRequests":          c.RateLimitMaxRequests,
		"RateLimitTimeWindowSeconds":    c.RateLimitTimeWindowSeconds,
		"RateLimitBlockDurationMinutes": c.RateLimitBlockDurationMinutes,
		"LoginRateLimitMaxAttempts":     c.LoginRateLimitMaxAttempts,
		"LoginRateLimitWindowSeconds":   c.LoginRateLimitWindowSeconds,
		"LoginRateLimitBlockMinutes":    c.LoginRateLimitBlockMinutes,
		"RegisterRateLimitMaxAttempts":  c.RegisterRateLimitMaxAttempts,
		"RegisterRateLimitWindowHours":  c.RegisterRateLimitWindowHours,
		"RegisterRateLimitBlockHours":   c.RegisterRateLimitBlockHours,
		"PasswordResetMaxAttempts":      c.PasswordResetMaxAttempts,
		"PasswordResetWindowMinutes":    c.PasswordResetWindowMinutes,
		"PasswordResetBlockHours":       c.PasswordResetBlockHours,
	}
	return atoiOr(fields[key], defaultValue)
}

func atoiOr(value string, defaultValue int) int {
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
