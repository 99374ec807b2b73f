package events

import "time"

// EmployeeLifecycleTopic is produced by the employee directory service.
const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const (
	EmployeeCreatedEventType = "employee_created"
	EmployeeUpdatedEventType = "employee_updated"
	EmployeeDeletedEventType = "employee_deleted"
)

type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
