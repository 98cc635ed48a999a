package auth

import "time"

// LoginAttempt records a login try for auditing and lockout decisions.
type LoginAttempt struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"index;not null"`
	IPAddress   *string   `json:"ipAddress"`
	UserAgent   *string   `json:"userAgent"`
	Success     bool      `json:"success" gorm:"default:false"`
	FailureType *string   `json:"failureType"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}
