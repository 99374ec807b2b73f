package directory

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the read model of an employee or admin record owned by the
// employee directory service.
type Profile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string
	Email      string `gorm:"uniqueIndex"`
	Department string
	Position   string
	Role       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Profile) TableName() string {
	return "employees"
}
