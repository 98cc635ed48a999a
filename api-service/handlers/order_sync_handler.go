package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gaurosa-backend/shared/database/models"
)

// OrderSyncHandler serves the MazGest order confirmation endpoint.
type OrderSyncHandler struct {
	db *gorm.DB
}

// NewOrderSyncHandler creates an order sync handler
func NewOrderSyncHandler(db *gorm.DB) *OrderSyncHandler {
	return &OrderSyncHandler{db: db}
}

// OrderConfirmation pairs a storefront order with its MazGest ID. These
// keys are camelCase on the wire, unlike the rest of the sync surface.
type OrderConfirmation struct {
	SiteOrderID    uint `json:"siteOrderId"`
	MazgestOrderID int  `json:"mazgestOrderId"`
}

// ConfirmOrdersRequest is the confirmation batch body.
type ConfirmOrdersRequest struct {
	Orders []OrderConfirmation `json:"orders"`
}

// POST /api/sync/confirm-orders
// @Summary Confirm orders imported by MazGest
// @Description Mark orders as received by MazGest. Per-pair failures are reported, the batch always answers 200.
// @Tags sync
// @Accept json
// @Produce json
// @Param batch body ConfirmOrdersRequest true "Order confirmations"
// @Success 200 {object} map[string]interface{} "Confirmation report"
// @Failure 401 {object} map[string]interface{} "Invalid API key"
// @Router /sync/confirm-orders [post]
// @Security ApiKeyAuth
func (h *OrderSyncHandler) ConfirmOrders(c *gin.Context) {
	var req ConfirmOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	updated := 0
	var confirmErrors []string

	for _, pair := range req.Orders {
		if pair.SiteOrderID == 0 || pair.MazgestOrderID == 0 {
			confirmErrors = append(confirmErrors, fmt.Sprintf("missing siteOrderId or mazgestOrderId: site=%d mazgest=%d", pair.SiteOrderID, pair.MazgestOrderID))
			continue
		}

		result := h.db.Model(&models.Order{}).
			Where("id = ?", pair.SiteOrderID).
			Updates(map[string]interface{}{
				"sent_to_mazgest":  true,
				"mazgest_order_id": pair.MazgestOrderID,
				"sent_at":          time.Now(),
				"sync_error":       nil,
			})
		if result.Error != nil {
			confirmErrors = append(confirmErrors, fmt.Sprintf("order %d: %v", pair.SiteOrderID, result.Error))
			continue
		}
		if result.RowsAffected == 0 {
			confirmErrors = append(confirmErrors, fmt.Sprintf("order %d not found", pair.SiteOrderID))
			continue
		}
		updated++
	}

	if updated > 0 {
		log.Printf("✅ Order confirmation: %d/%d marked as sent to MazGest", updated, len(req.Orders))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updated": updated,
		"total":   len(req.Orders),
		"errors":  confirmErrors,
	})
}
