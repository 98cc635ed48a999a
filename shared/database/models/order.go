package models

import "time"

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusFailed     = "failed"
	OrderStatusRefunded   = "refunded"
	OrderStatusProcessing = "processing"
)

// Order is the storefront order header. Only the fields the auth and
// sync flows touch are modeled here.
type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderNumber string `json:"orderNumber" gorm:"uniqueIndex;not null"`
	CustomerID  *uint  `json:"customerId" gorm:"index"`
	Email       string `json:"email" gorm:"index"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`

	Status        string  `json:"status" gorm:"default:pending;index"`
	PaymentStatus string  `json:"paymentStatus" gorm:"default:pending"`
	Total         float64 `json:"total" gorm:"not null"`

	// Stripe payment state
	PaymentIntentID *string    `json:"-" gorm:"index"`
	PaidAt          *time.Time `json:"paidAt"`

	// MazGest confirmation state
	SentToMazgest  bool       `json:"sentToMazgest" gorm:"default:false;index"`
	MazgestOrderID *int       `json:"mazgestOrderId"`
	SentAt         *time.Time `json:"sentAt"`
	SyncError      *string    `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
