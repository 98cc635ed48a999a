package middleware

import (
	"net/http"
	"sync"
	"time"

	"gaurosa-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// rateEntry tracks request counts for a single key.
type rateEntry struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimiter is an in-memory per-IP limiter with scoped buckets.
type RateLimiter struct {
	store       map[string]*rateEntry
	mutex       sync.Mutex
	cleanupTime time.Duration
}

// RateLimitConfig - Rate limiter configuration
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// GeneralRateLimitConfig builds the default per-IP limit from config.
func GeneralRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   cfg.GetIntField("RateLimitMaxRequests", 100),
		TimeWindow:    time.Duration(cfg.GetIntField("RateLimitTimeWindowSeconds", 60)) * time.Second,
		BlockDuration: time.Duration(cfg.GetIntField("RateLimitBlockDurationMinutes", 15)) * time.Minute,
	}
}

// LoginRateLimitConfig builds the login attempt limit from config.
func LoginRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   cfg.GetIntField("LoginRateLimitMaxAttempts", 5),
		TimeWindow:    time.Duration(cfg.GetIntField("LoginRateLimitWindowSeconds", 300)) * time.Second,
		BlockDuration: time.Duration(cfg.GetIntField("LoginRateLimitBlockMinutes", 15)) * time.Minute,
	}
}

// RegisterRateLimitConfig builds the registration limit from config.
func RegisterRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   cfg.GetIntField("RegisterRateLimitMaxAttempts", 3),
		TimeWindow:    time.Duration(cfg.GetIntField("RegisterRateLimitWindowHours", 24)) * time.Hour,
		BlockDuration: time.Duration(cfg.GetIntField("RegisterRateLimitBlockHours", 48)) * time.Hour,
	}
}

// PasswordResetRateLimitConfig builds the reset request limit from config.
func PasswordResetRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   cfg.GetIntField("PasswordResetMaxAttempts", 3),
		TimeWindow:    time.Duration(cfg.GetIntField("PasswordResetWindowMinutes", 60)) * time.Minute,
		BlockDuration: time.Duration(cfg.GetIntField("PasswordResetBlockHours", 24)) * time.Hour,
	}
}

// NewRateLimiter creates a limiter and starts its cleanup goroutine.
func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*rateEntry),
		cleanupTime: cleanupTime,
	}
	go limiter.cleanup()
	return limiter
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()
		for key, entry := range rl.store {
			if now.Sub(entry.LastAccess) > 24*time.Hour {
				delete(rl.store, key)
			}
		}
		rl.mutex.Unlock()
	}
}

func (rl *RateLimiter) isAllowed(key string, cfg RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	entry, exists := rl.store[key]

	if !exists {
		rl.store[key] = &rateEntry{
			Count:      1,
			ResetAt:    now.Add(cfg.TimeWindow),
			LastAccess: now,
		}
		return true
	}

	if entry.Blocked {
		if now.After(entry.BlockUntil) {
			entry.Blocked = false
			entry.Count = 1
			entry.ResetAt = now.Add(cfg.TimeWindow)
			entry.LastAccess = now
			return true
		}
		return false
	}

	if now.After(entry.ResetAt) {
		entry.Count = 1
		entry.ResetAt = now.Add(cfg.TimeWindow)
		entry.LastAccess = now
		return true
	}

	if entry.Count >= cfg.MaxRequests {
		entry.Blocked = true
		entry.BlockUntil = now.Add(cfg.BlockDuration)
		entry.LastAccess = now
		return false
	}

	entry.Count++
	entry.LastAccess = now
	return true
}

// Limit returns a middleware that rate limits by client IP within the
// given scope. Scopes keep login, register and reset buckets separate.
func (rl *RateLimiter) Limit(scope string, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		if !rl.isAllowed(key, cfg) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       "Troppi tentativi. Riprova più tardi.",
				"retry_after": cfg.BlockDuration.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
