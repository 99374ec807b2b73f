package middleware

import (
	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	identityerrors "github.com/MichelleArumemi/EmployeeMS/internal/identity/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := identity.FromGin(c)
		if !ok {
			abortWith(c, identityerrors.ErrUnauthenticated)
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     principal.Role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWith(c, apperror.ErrInternal.WithCause(err))
			return
		}

		if !allowed {
			abortWith(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}
