package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gaurosa-backend/shared/clients"
	"gaurosa-backend/shared/database/models"
	utils "gaurosa-backend/shared/utils/auth"
)

// GoogleVerifier validates a Google ID token. Satisfied by
// clients.GoogleClient.
type GoogleVerifier interface {
	VerifyIDToken(idToken string) (*clients.GoogleTokenInfo, error)
}

// GoogleAuth request struct
type GoogleAuthRequest struct {
	Credential string `json:"credential"`
}

// POST /api/auth/google
// @Summary Google sign-in
// @Description Verify a Google ID token, create or link the customer account and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param google body GoogleAuthRequest true "Google ID token"
// @Success 200 {object} map[string]interface{} "Authenticated"
// @Failure 400 {object} map[string]interface{} "Token has no email"
// @Failure 401 {object} map[string]interface{} "Token verification failed"
// @Router /auth/google [post]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Credential == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Richiesta non valida"})
		return
	}

	info, err := h.google.VerifyIDToken(req.Credential)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Autenticazione Google non riuscita"})
		return
	}
	if info.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Account Google senza email"})
		return
	}

	email := utils.NormalizeEmail(info.Email)
	now := time.Now()

	var customer models.Customer
	isNew := false

	err = h.db.Where("auth_provider = ? AND provider_id = ?", models.AuthProviderGoogle, info.Sub).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = h.db.Where("email = ?", email).First(&customer).Error
	}

	switch {
	case err == nil:
		// Link Google to the existing account. A local password, if any,
		// stays valid alongside the provider login.
		updates := map[string]interface{}{
			"auth_provider":      models.AuthProviderGoogle,
			"provider_id":        info.Sub,
			"email_verified":     true,
			"verification_token": nil,
			"token_expires_at":   nil,
		}
		if !customer.EmailVerified {
			updates["email_verified_at"] = now
		}
		if customer.FirstName == nil || *customer.FirstName == "" {
			if info.GivenName != "" {
				updates["first_name"] = info.GivenName
			}
		}
		if customer.LastName == nil || *customer.LastName == "" {
			if info.FamilyName != "" {
				updates["last_name"] = info.FamilyName
			}
		}
		if customer.AvatarURL == nil || *customer.AvatarURL == "" {
			if info.Picture != "" {
				updates["avatar_url"] = info.Picture
			}
		}
		if err := h.db.Model(&customer).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
			return
		}
		if err := h.db.First(&customer, customer.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
			return
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		isNew = true
		providerID := info.Sub
		customer = models.Customer{
			Email:           email,
			AuthProvider:    models.AuthProviderGoogle,
			ProviderID:      &providerID,
			EmailVerified:   true,
			EmailVerifiedAt: &now,
			PrivacyConsent:  true,
			ConsentedAt:     &now,
			FromWebsite:     true,
			SyncStatus:      models.SyncStatusPending,
		}
		if info.GivenName != "" {
			name := info.GivenName
			customer.FirstName = &name
		}
		if info.FamilyName != "" {
			name := info.FamilyName
			customer.LastName = &name
		}
		if info.Picture != "" {
			picture := info.Picture
			customer.AvatarURL = &picture
		}
		if err := h.db.Create(&customer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
			return
		}

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	if customer.MazgestID == nil {
		h.syncService.TriggerAsync(customer.ID)
	}

	if err := h.issueSession(c, &customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	h.db.Model(&customer).Update("last_login_at", now)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"isNew":   isNew,
		"user":    buildUserInfo(&customer),
	})
}
