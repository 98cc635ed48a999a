package models

import (
	"time"
)

// Customer sync statuses
const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)

// Auth providers
const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

// Customer types for invoicing
const (
	CustomerTypePrivato = "privato"
	CustomerTypeAzienda = "azienda"
)

// Customer represents a storefront account, including guest checkout rows
// that have no password yet.
type Customer struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Email    string  `json:"email" gorm:"uniqueIndex;not null"`
	Password *string `json:"-"`

	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`

	AuthProvider string  `json:"authProvider" gorm:"default:email;uniqueIndex:idx_customers_provider"`
	ProviderID   *string `json:"-" gorm:"uniqueIndex:idx_customers_provider"`
	AvatarURL    *string `json:"avatarUrl"`

	EmailVerified     bool       `json:"emailVerified" gorm:"default:false"`
	EmailVerifiedAt   *time.Time `json:"emailVerifiedAt"`
	VerificationToken *string    `json:"-" gorm:"index"`
	TokenExpiresAt    *time.Time `json:"-"`

	// Italian invoicing fields
	CustomerType   *string `json:"customerType"`
	RagioneSociale *string `json:"ragioneSociale"`
	CodiceFiscale  *string `json:"codiceFiscale"`
	PartitaIVA     *string `json:"partitaIva" gorm:"column:partita_iva"`
	CodiceSDI      *string `json:"codiceSdi" gorm:"column:codice_sdi"`
	PECEmail       *string `json:"pecEmail" gorm:"column:pec_email"`

	BillingAddress    *string `json:"billingAddress"`
	BillingCity       *string `json:"billingCity"`
	BillingProvince   *string `json:"billingProvince"`
	BillingPostalCode *string `json:"billingPostalCode"`
	BillingCountry    *string `json:"billingCountry"`

	ShippingAddress    *string `json:"shippingAddress"`
	ShippingCity       *string `json:"shippingCity"`
	ShippingProvince   *string `json:"shippingProvince"`
	ShippingPostalCode *string `json:"shippingPostalCode"`
	ShippingCountry    *string `json:"shippingCountry"`

	PrivacyConsent   bool       `json:"privacyConsent" gorm:"default:false"`
	MarketingConsent bool       `json:"marketingConsent" gorm:"default:false"`
	ConsentedAt      *time.Time `json:"consentedAt"`
	FromWebsite      bool       `json:"fromWebsite" gorm:"default:true"`

	// MazGest synchronization state
	MazgestID     *int       `json:"mazgestId" gorm:"uniqueIndex"`
	SyncStatus    string     `json:"syncStatus" gorm:"default:pending;index"`
	SyncedAt      *time.Time `json:"syncedAt"`
	LastSyncError *string    `json:"-"`

	LastLoginAt *time.Time `json:"lastLoginAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPassword reports whether the account completed credential setup.
// Guest checkout creates customers without a password.
func (c *Customer) HasPassword() bool {
	return c.Password != nil && *c.Password != ""
}

// FullName joins first and last name, skipping empty parts.
func (c *Customer) FullName() string {
	name := ""
	if c.FirstName != nil {
		name = *c.FirstName
	}
	if c.LastName != nil && *c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += *c.LastName
	}
	return name
}
