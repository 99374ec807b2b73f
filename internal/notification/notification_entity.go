package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeaveStatus = "leave_status"
	TypeAdmin       = "admin"

	RelatedLeaveRequest = "leave_request"
	RelatedAnnouncement = "announcement"
	RelatedOther        = "other"
)

// Notification is one recipient's copy. Broadcasts write one row per recipient
// so that read state stays independent.
type Notification struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SenderID          uuid.UUID       `gorm:"type:uuid;index"`
	RecipientID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_notifications_recipient_read,priority:1"`
	Type              string          `gorm:"size:50;not null"`
	Title             string          `gorm:"size:200;not null"`
	Message           string          `gorm:"not null"`
	RelatedEntityType string          `gorm:"size:50"`
	RelatedEntityID   *uuid.UUID      `gorm:"type:uuid"`
	Metadata          json.RawMessage `gorm:"type:jsonb"`
	IsRead            bool            `gorm:"not null;default:false;index:idx_notifications_recipient_read,priority:2"`
	ReadAt            *time.Time
	CreatedAt         time.Time `gorm:"index"`
}
