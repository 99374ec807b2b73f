package identity

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Principal is the caller resolved by the auth middleware. It is passed explicitly
// into every service call.
type Principal struct {
	SubjectID uuid.UUID
	Role      Role
}

func (p Principal) Authenticated() bool {
	return p.SubjectID != uuid.Nil && p.Role.Valid()
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

const ginKey = "identity.principal"

func Set(c *gin.Context, p Principal) {
	c.Set(ginKey, p)
}

// FromGin returns the principal stored by the auth middleware, or the zero Principal.
func FromGin(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(ginKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
