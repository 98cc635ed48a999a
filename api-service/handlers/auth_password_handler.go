package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gaurosa-backend/shared/config"
	"gaurosa-backend/shared/database/models"
	authmodels "gaurosa-backend/shared/database/models/auth"
	utils "gaurosa-backend/shared/utils/auth"
)

// ForgotPassword request struct
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPassword request struct
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// POST /api/auth/forgot-password
// @Summary Request password reset
// @Description Email a single use reset link. Response never reveals whether the account exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param forgot body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]interface{} "Uniform success"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Richiesta non valida"})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	uniform := gin.H{
		"success": true,
		"message": "Se l'indirizzo è registrato riceverai le istruzioni per reimpostare la password.",
	}

	var customer models.Customer
	if err := h.db.Where("email = ?", email).First(&customer).Error; err != nil || !customer.HasPassword() {
		c.JSON(http.StatusOK, uniform)
		return
	}

	token, err := utils.GenerateToken()
	if err != nil {
		c.JSON(http.StatusOK, uniform)
		return
	}

	reset := authmodels.PasswordReset{
		Token:      token,
		CustomerID: customer.ID,
		ExpiresAt:  time.Now().Add(config.GetConfig().GetPasswordResetExpire()),
	}
	if err := h.db.Create(&reset).Error; err != nil {
		log.Printf("❌ Failed to create password reset for %s: %v", email, err)
		c.JSON(http.StatusOK, uniform)
		return
	}

	name := ""
	if customer.FirstName != nil {
		name = *customer.FirstName
	}
	go func() {
		if err := h.mailer.SendPasswordResetEmail(customer.Email, name, token); err != nil {
			log.Printf("❌ Password reset email to %s not sent: %v", customer.Email, err)
		}
	}()

	c.JSON(http.StatusOK, uniform)
}

// POST /api/auth/reset-password
// @Summary Reset password
// @Description Consume a reset token, set the new password and revoke every open session
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} map[string]interface{} "Password updated"
// @Failure 400 {object} map[string]interface{} "Invalid token or weak password"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Richiesta non valida"})
		return
	}

	if msg := utils.ValidatePassword(req.Password); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  map[string]string{"password": msg},
		})
		return
	}

	var reset authmodels.PasswordReset
	if err := h.db.Where("token = ?", req.Token).First(&reset).Error; err != nil || !reset.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Token non valido o scaduto"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	now := time.Now()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Customer{}).
			Where("id = ?", reset.CustomerID).
			Updates(map[string]interface{}{
				"password":    hash,
				"sync_status": models.SyncStatusPending,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&authmodels.PasswordReset{}).
			Where("id = ?", reset.ID).
			Update("used_at", now).Error; err != nil {
			return err
		}

		// The password change invalidates every open session.
		return tx.Model(&authmodels.RefreshToken{}).
			Where("customer_id = ? AND revoked_at IS NULL", reset.CustomerID).
			Update("revoked_at", now).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password aggiornata con successo",
	})
}
