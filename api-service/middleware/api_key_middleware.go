package middleware

import (
	"crypto/subtle"
	"net/http"

	"gaurosa-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware protects the MazGest sync endpoints. The caller must
// present one of the configured keys in the X-Api-Key header.
func APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")

		if !ValidSyncAPIKey(key) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid API key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ValidSyncAPIKey checks a key against both configured sync keys using
// constant time comparison.
func ValidSyncAPIKey(key string) bool {
	cfg := config.GetConfig()
	if key == "" {
		return false
	}

	if cfg.SyncAPIKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.SyncAPIKey)) == 1 {
		return true
	}
	if cfg.MazGestAPIKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.MazGestAPIKey)) == 1 {
		return true
	}
	return false
}
