package auth

import "time"

// PasswordReset is a single use reset token. UsedAt marks consumption.
type PasswordReset struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Token      string     `json:"-" gorm:"uniqueIndex;not null"`
	CustomerID uint       `json:"customerId" gorm:"index;not null"`
	ExpiresAt  time.Time  `json:"expiresAt" gorm:"not null"`
	UsedAt     *time.Time `json:"usedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// IsValid reports whether the token is unused and not expired.
func (r *PasswordReset) IsValid() bool {
	return r.UsedAt == nil && r.ExpiresAt.After(time.Now())
}
