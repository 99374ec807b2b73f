package leave

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decision is the outcome a reviewer may choose for a pending request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

func (d Decision) Status() Status {
	return Status(d)
}

const DefaultLeaveType = "annual"

// Leave is a request for time off. Rows are never deleted and leave the
// pending state at most once.
type Leave struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubmitterID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_submitter_created,priority:1"`

	LeaveType string    `gorm:"size:30;not null;default:'annual'"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          Status     `gorm:"size:20;not null;default:'pending';index:idx_leave_requests_status_created,priority:1"`
	ReviewerID      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`
	DecidedAt       *time.Time

	CreatedAt time.Time `gorm:"index:idx_leave_requests_submitter_created,priority:2;index:idx_leave_requests_status_created,priority:2"`
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leave_requests"
}
