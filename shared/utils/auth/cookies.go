package auth

import (
	"net/http"

	"gaurosa-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// SetAccessCookie writes the short lived JWT cookie.
func SetAccessCookie(c *gin.Context, token string) {
	cfg := config.GetConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.AccessCookieName, token, int(cfg.GetAccessTokenExpire().Seconds()), "/", "", cfg.IsProduction(), true)
}

// SetRefreshCookie writes the long lived opaque session cookie.
func SetRefreshCookie(c *gin.Context, token string) {
	cfg := config.GetConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.RefreshCookieName, token, int(cfg.GetRefreshTokenExpire().Seconds()), "/", "", cfg.IsProduction(), true)
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(c *gin.Context) {
	cfg := config.GetConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.AccessCookieName, "", -1, "/", "", cfg.IsProduction(), true)
	c.SetCookie(cfg.RefreshCookieName, "", -1, "/", "", cfg.IsProduction(), true)
}
