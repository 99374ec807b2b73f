package leave

import (
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
)

const dateLayout = "2006-01-02"

type SubmitLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"omitempty,max=2000"`
	LeaveType string `json:"leave_type" binding:"omitempty,max=30"`
}

type DecideLeaveRequest struct {
	Status          string `json:"status" binding:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=2000"`
}

// SubmitterSnapshot is the submitter's directory entry at read time.
type SubmitterSnapshot struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type LeaveResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	LeaveType       string             `json:"leave_type"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	TotalDays       int                `json:"total_days"`
	Reason          string             `json:"reason"`
	Status          Status             `json:"status"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	ReviewedBy      *string            `json:"reviewed_by,omitempty"`
	ReviewedAt      *string            `json:"reviewed_at,omitempty"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
	Employee        *SubmitterSnapshot `json:"employee,omitempty"`
}

type NewLeaveRequestPayload struct {
	Message      string `json:"message"`
	RequestID    string `json:"request_id"`
	EmployeeName string `json:"employee_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	LeaveType    string `json:"leave_type"`
}

type LeaveStatusUpdatePayload struct {
	RequestID      string `json:"request_id"`
	Status         Status `json:"status"`
	Message        string `json:"message"`
	NotificationID string `json:"notification_id,omitempty"`
	UpdatedAt      string `json:"updated_at"`
}

type LeaveRequestUpdatedPayload struct {
	RequestID  string `json:"request_id"`
	Status     Status `json:"status"`
	EmployeeID string `json:"employee_id"`
}

func toSnapshot(p directory.ProfileResponse) *SubmitterSnapshot {
	return &SubmitterSnapshot{
		Name:       p.Name,
		Email:      p.Email,
		Department: p.Department,
		Position:   p.Position,
	}
}

func mapToResponse(l Leave, employee *SubmitterSnapshot) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.SubmitterID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.UTC().Format(time.RFC3339),
		Employee:        employee,
	}
	if l.ReviewerID != nil {
		v := l.ReviewerID.String()
		resp.ReviewedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l, nil)
	}
	return resp
}
