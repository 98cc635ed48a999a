package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gaurosa-backend/shared/config"
	"gaurosa-backend/shared/database/models"
	utils "gaurosa-backend/shared/utils/auth"
)

// VerifyEmail request struct
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ResendVerification request struct
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// POST /api/auth/verify-email
// @Summary Verify email address
// @Description Consume a verification token. Idempotent for already verified accounts.
// @Tags auth
// @Accept json
// @Produce json
// @Param verify body VerifyEmailRequest true "Verification token"
// @Success 200 {object} map[string]interface{} "Verified"
// @Failure 400 {object} map[string]interface{} "Invalid or expired token"
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Token == "" {
		req.Token = c.Query("token")
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Token mancante"})
		return
	}

	var customer models.Customer
	if err := h.db.Where("verification_token = ?", req.Token).First(&customer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Token non valido o scaduto"})
		return
	}

	if customer.EmailVerified {
		c.JSON(http.StatusOK, gin.H{"success": true, "alreadyVerified": true})
		return
	}

	if customer.TokenExpiresAt == nil || customer.TokenExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Token non valido o scaduto"})
		return
	}

	// The token stays on the row as a consumed marker so a replayed link
	// answers alreadyVerified instead of an error. Only the expiry is
	// cleared.
	now := time.Now()
	err := h.db.Model(&customer).Updates(map[string]interface{}{
		"email_verified":    true,
		"email_verified_at": now,
		"token_expires_at":  nil,
		"sync_status":       models.SyncStatusPending,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	// Welcome email and MazGest push run detached from the response.
	go func(email, name string) {
		if err := h.mailer.SendWelcomeEmail(email, name); err != nil {
			log.Printf("❌ Welcome email to %s not sent: %v", email, err)
		}
	}(customer.Email, customer.FullName())
	h.syncService.TriggerAsync(customer.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verificata con successo",
	})
}

// POST /api/auth/resend-verification
// @Summary Resend verification email
// @Description Rotate the verification token and resend the email. Response never reveals whether the account exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param resend body ResendVerificationRequest true "Account email"
// @Success 200 {object} map[string]interface{} "Uniform success"
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Richiesta non valida"})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	uniform := gin.H{
		"success": true,
		"message": "Se l'indirizzo è registrato riceverai una nuova email di verifica.",
	}

	var customer models.Customer
	if err := h.db.Where("email = ?", email).First(&customer).Error; err != nil || !customer.HasPassword() {
		c.JSON(http.StatusOK, uniform)
		return
	}

	if customer.EmailVerified {
		c.JSON(http.StatusOK, gin.H{"success": true, "alreadyVerified": true})
		return
	}

	token, err := utils.GenerateToken()
	if err != nil {
		c.JSON(http.StatusOK, uniform)
		return
	}
	expiry := time.Now().Add(config.GetConfig().GetVerificationTokenExpire())

	err = h.db.Model(&customer).Updates(map[string]interface{}{
		"verification_token": token,
		"token_expires_at":   expiry,
	}).Error
	if err != nil {
		log.Printf("❌ Failed to rotate verification token for %s: %v", email, err)
		c.JSON(http.StatusOK, uniform)
		return
	}

	name := ""
	if customer.FirstName != nil {
		name = *customer.FirstName
	}
	h.sendVerificationAsync(customer.Email, name, token)

	c.JSON(http.StatusOK, uniform)
}
