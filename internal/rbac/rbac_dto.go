package rbac

import "github.com/MichelleArumemi/EmployeeMS/internal/identity"

const (
	ResourceLeave        = "leave"
	ResourceNotification = "notification"

	ActionCreate    = "create"
	ActionReadOwn   = "read_own"
	ActionReview    = "review"
	ActionRead      = "read"
	ActionSend      = "send"
	ActionDeleteAny = "delete_any"
)

type EnforceRequest struct {
	Role     identity.Role `json:"-"`
	Resource string        `json:"resource" binding:"required"`
	Action   string        `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
