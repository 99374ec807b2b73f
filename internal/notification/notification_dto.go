package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateInput is used by other modules to store notifications without delivering them.
type CreateInput struct {
	SenderID          uuid.UUID
	RecipientIDs      []uuid.UUID
	Type              string
	Title             string
	Message           string
	RelatedEntityType string
	RelatedEntityID   *uuid.UUID
	Metadata          map[string]any
}

type SendNotificationRequest struct {
	RecipientIDs      []string       `json:"recipient_ids" binding:"required,min=1,dive,required"`
	Title             string         `json:"title" binding:"omitempty,max=200"`
	Message           string         `json:"message" binding:"required,max=2000"`
	Type              string         `json:"type" binding:"omitempty,max=50"`
	RelatedEntityType string         `json:"related_entity_type" binding:"omitempty,oneof=leave_request announcement other"`
	RelatedEntityID   string         `json:"related_entity_id"`
	Metadata          map[string]any `json:"metadata"`
}

type NotificationResponse struct {
	ID                string          `json:"id"`
	SenderID          string          `json:"sender_id"`
	SenderName        string          `json:"sender_name,omitempty"`
	RecipientID       string          `json:"recipient_id"`
	Type              string          `json:"type"`
	Title             string          `json:"title"`
	Message           string          `json:"message"`
	RelatedEntityType string          `json:"related_entity_type,omitempty"`
	RelatedEntityID   *string         `json:"related_entity_id,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	IsRead            bool            `json:"is_read"`
	ReadAt            *string         `json:"read_at,omitempty"`
	CreatedAt         string          `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:                n.ID.String(),
		SenderID:          n.SenderID.String(),
		RecipientID:       n.RecipientID.String(),
		Type:              n.Type,
		Title:             n.Title,
		Message:           n.Message,
		RelatedEntityType: n.RelatedEntityType,
		Metadata:          n.Metadata,
		IsRead:            n.IsRead,
		CreatedAt:         n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.RelatedEntityID != nil {
		id := n.RelatedEntityID.String()
		resp.RelatedEntityID = &id
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.UTC().Format(time.RFC3339)
		resp.ReadAt = &readAt
	}
	return resp
}

func mapToListResponse(items []Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, mapToResponse(n))
	}
	return out
}
