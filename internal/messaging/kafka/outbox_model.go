package kafka

import "time"

// OutboxRecord describes the outbox_events table for migrations. The
// repository itself talks to the table with plain SQL.
type OutboxRecord struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	RequestID     *string `gorm:"size:64"`
	AggregateType string  `gorm:"size:50;not null"`
	AggregateID   string  `gorm:"type:uuid;not null;index"`
	EventType     string  `gorm:"size:100;not null"`
	Topic         string  `gorm:"size:200;not null"`
	Payload       []byte  `gorm:"type:jsonb;not null"`
	Status        string  `gorm:"size:20;not null;default:'pending';index:idx_outbox_events_status_created,priority:1"`
	RetryCount    int     `gorm:"not null;default:0"`
	ErrorMessage  *string `gorm:"size:500"`
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;default:now();index:idx_outbox_events_status_created,priority:2"`
	UpdatedAt     time.Time `gorm:"not null;default:now()"`
}

func (OutboxRecord) TableName() string {
	return "outbox_events"
}
