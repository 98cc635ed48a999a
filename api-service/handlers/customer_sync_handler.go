package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gaurosa-backend/shared/clients"
	"gaurosa-backend/shared/database/models"
)

const (
	pendingCustomersDefaultLimit = 50
	pendingCustomersMaxLimit     = 200
)

// CustomerSyncHandler serves the MazGest-facing customer pull endpoint.
type CustomerSyncHandler struct {
	db *gorm.DB
}

// NewCustomerSyncHandler creates a customer sync handler
func NewCustomerSyncHandler(db *gorm.DB) *CustomerSyncHandler {
	return &CustomerSyncHandler{db: db}
}

// GET /api/sync/pending-customers
// @Summary Pending customers for MazGest
// @Description Verified customers whose sync is pending or failed, oldest first
// @Tags sync
// @Produce json
// @Param limit query int false "Page size (default 50, max 200)"
// @Success 200 {object} map[string]interface{} "Customer batch"
// @Failure 401 {object} map[string]interface{} "Invalid API key"
// @Router /sync/pending-customers [get]
// @Security ApiKeyAuth
func (h *CustomerSyncHandler) PendingCustomers(c *gin.Context) {
	limit := pendingCustomersDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > pendingCustomersMaxLimit {
		limit = pendingCustomersMaxLimit
	}

	var customers []models.Customer
	err := h.db.
		Where("email_verified = ? AND sync_status IN ?", true, []string{models.SyncStatusPending, models.SyncStatusError}).
		Order("created_at ASC").
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load pending customers"})
		return
	}

	payloads := make([]clients.CustomerSyncPayload, 0, len(customers))
	for i := range customers {
		payloads = append(payloads, clients.BuildCustomerPayload(&customers[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": payloads,
		"count":     len(payloads),
		"has_more":  len(payloads) >= limit,
	})
}
