package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events. Implementations must not block shutdown.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
