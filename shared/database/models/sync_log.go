package models

import "time"

// Sync log statuses
const (
	SyncLogStatusSuccess = "success"
	SyncLogStatusPartial = "partial"
	SyncLogStatusError   = "error"
)

// SyncLog records the outcome of a MazGest batch operation.
type SyncLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SyncType   string    `json:"syncType" gorm:"index;not null"`
	Direction  string    `json:"direction" gorm:"default:inbound"`
	Status     string    `json:"status" gorm:"not null"`
	Total      int       `json:"total" gorm:"default:0"`
	Processed  int       `json:"processed" gorm:"default:0"`
	Failed     int       `json:"failed" gorm:"default:0"`
	Details    *string   `json:"details" gorm:"type:text"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}
