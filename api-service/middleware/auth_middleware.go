package middleware

import (
	"net/http"

	"gaurosa-backend/shared/config"
	authutils "gaurosa-backend/shared/utils/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the access cookie and stores the customer
// identity in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.GetConfig()

		tokenString, err := c.Cookie(cfg.AccessCookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Non autenticato",
			})
			c.Abort()
			return
		}

		claims, err := authutils.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessione scaduta",
			})
			c.Abort()
			return
		}

		c.Set("customer_id", claims.CustomerID)
		c.Set("customer_email", claims.Email)
		c.Next()
	}
}

// GetCustomerID reads the authenticated customer ID set by AuthMiddleware.
func GetCustomerID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("customer_id")
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
