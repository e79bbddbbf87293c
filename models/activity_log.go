package models

import "time"

// ActivityLog is the append-only audit trail. Rows are written once and never
// updated; the lifecycle engine writes them but never reads them back.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"type:uuid;not null" json:"event_id"`
	BountyID  *uint     `gorm:"index" json:"bounty_id"`
	EventType string    `gorm:"type:varchar(64);not null" json:"event_type"`
	EventData string    `gorm:"type:text" json:"event_data"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
