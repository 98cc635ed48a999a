package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gaurosa-backend/shared/config"
	"gaurosa-backend/shared/database/models"
)

const stripeSignatureTolerance = 5 * time.Minute

// WebhookHandler serves the Stripe payment webhook.
type WebhookHandler struct {
	db *gorm.DB
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(db *gorm.DB) *WebhookHandler {
	return &WebhookHandler{db: db}
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentIntent string `json:"payment_intent"`
		} `json:"object"`
	} `json:"data"`
}

// POST /api/webhook/stripe
// @Summary Stripe payment webhook
// @Description Process payment events. After signature validation the endpoint always answers 200 so Stripe does not retry.
// @Tags webhook
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Acknowledged"
// @Failure 400 {object} map[string]interface{} "Bad signature or payload"
// @Router /webhook/stripe [post]
func (h *WebhookHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read payload"})
		return
	}

	secret := config.GetConfig().StripeWebhookSecret
	if secret != "" {
		if err := verifyStripeSignature(payload, c.GetHeader("Stripe-Signature"), secret, time.Now()); err != nil {
			log.Printf("❌ Stripe signature verification failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	// From here on every outcome acknowledges the event.
	switch event.Type {
	case "payment_intent.succeeded":
		h.markOrder(event.Data.Object.ID, map[string]interface{}{
			"status":         models.OrderStatusPaid,
			"payment_status": "paid",
			"paid_at":        time.Now(),
		})
	case "payment_intent.payment_failed":
		h.markOrder(event.Data.Object.ID, map[string]interface{}{
			"status":         models.OrderStatusFailed,
			"payment_status": "failed",
		})
	case "charge.refunded":
		h.markOrder(event.Data.Object.PaymentIntent, map[string]interface{}{
			"status":         models.OrderStatusRefunded,
			"payment_status": "refunded",
		})
	default:
		log.Printf("🔄 Stripe event %s acknowledged without action", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) markOrder(paymentIntentID string, updates map[string]interface{}) {
	if paymentIntentID == "" {
		log.Printf("❌ Stripe event without payment intent id")
		return
	}

	result := h.db.Model(&models.Order{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Updates(updates)
	if result.Error != nil {
		log.Printf("❌ Failed to update order for payment intent %s: %v", paymentIntentID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("❌ No order found for payment intent %s", paymentIntentID)
		return
	}

	log.Printf("✅ Order updated from Stripe event (payment intent %s)", paymentIntentID)
}

// verifyStripeSignature checks the Stripe-Signature header: HMAC-SHA256
// over "<timestamp>.<payload>" with a bounded timestamp skew.
func verifyStripeSignature(payload []byte, header, secret string, now time.Time) error {
	if header == "" {
		return fmt.Errorf("missing signature header")
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			parsed, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid timestamp")
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	eventTime := time.Unix(timestamp, 0)
	skew := now.Sub(eventTime)
	if skew < 0 {
		skew = -skew
	}
	if skew > stripeSignatureTolerance {
		return fmt.Errorf("timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}
