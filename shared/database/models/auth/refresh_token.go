package auth

import "time"

// RefreshToken is an opaque session token stored server side. Revocation
// sets RevokedAt instead of deleting the row so sessions stay auditable.
type RefreshToken struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Token      string     `json:"-" gorm:"uniqueIndex;not null"`
	CustomerID uint       `json:"customerId" gorm:"index;not null"`
	UserAgent  *string    `json:"userAgent"`
	IPAddress  *string    `json:"ipAddress"`
	ExpiresAt  time.Time  `json:"expiresAt" gorm:"not null"`
	RevokedAt  *time.Time `json:"revokedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// IsValid reports whether the token is neither revoked nor expired.
func (t *RefreshToken) IsValid() bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(time.Now())
}
