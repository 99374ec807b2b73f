package leave

import (
	"github.com/MichelleArumemi/EmployeeMS/internal/middleware"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes expects r to already run the auth middleware. rdb may be nil.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave")
	{
		create := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCreate)}
		if rdb != nil {
			create = append(create, middleware.Idempotency(rdb))
		}
		leaves.POST("", append(create, handler.Submit)...)

		leaves.GET("/my-requests", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadOwn), handler.ListOwn)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReview), handler.ListPending)
		leaves.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReview), handler.Decide)
	}
}
