package notification

import (
	"github.com/MichelleArumemi/EmployeeMS/internal/middleware"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already run the auth middleware.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	notifications := r.Group("/notifications")
	{
		read := middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionRead)

		notifications.GET("", read, handler.List)
		notifications.GET("/unread-count", read, handler.UnreadCount)
		notifications.PATCH("/mark-all-read", read, handler.MarkAllRead)
		notifications.PATCH("/:id/read", read, handler.MarkRead)
		notifications.DELETE("/:id", read, handler.Delete)
		notifications.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionSend), handler.Send)
	}
}
