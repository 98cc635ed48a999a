package models

import "time"

// Brand is a product brand mirrored from MazGest.
type Brand struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MazgestID *int      `json:"mazgestId" gorm:"uniqueIndex"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Supplier is a product supplier mirrored from MazGest.
type Supplier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MazgestID *int      `json:"mazgestId" gorm:"uniqueIndex"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
