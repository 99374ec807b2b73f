package realtime

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventConnected           EventType = "connected"
	EventPong                EventType = "pong"
	EventNewLeaveRequest     EventType = "new_leave_request"
	EventLeaveStatusUpdate   EventType = "leave_status_update"
	EventLeaveRequestUpdated EventType = "leave_request_updated"
	EventNewNotification     EventType = "new_notification"
)

// AdminChannel is joined by every admin connection in addition to its own user channel.
const AdminChannel = "admin"

func UserChannel(id uuid.UUID) string {
	return "user_" + id.String()
}

// Event is the frame written to WebSocket clients.
type Event struct {
	Type       EventType `json:"type"`
	Channel    string    `json:"channel,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, payload any) Event {
	return Event{
		Type:       t,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}
