package rbac

import "github.com/MichelleArumemi/EmployeeMS/internal/identity"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRolePermissions() ([]RolePermissionRow, error)
}

type RolePermissionRow struct {
	Role     identity.Role
	Resource string
	Action   string
}

// defaultPolicy grants admins the review and broadcast permissions on top of
// everything an employee can do.
var defaultPolicy = []RolePermissionRow{
	{Role: identity.RoleEmployee, Resource: ResourceLeave, Action: ActionCreate},
	{Role: identity.RoleEmployee, Resource: ResourceLeave, Action: ActionReadOwn},
	{Role: identity.RoleEmployee, Resource: ResourceNotification, Action: ActionRead},

	{Role: identity.RoleAdmin, Resource: ResourceLeave, Action: ActionCreate},
	{Role: identity.RoleAdmin, Resource: ResourceLeave, Action: ActionReadOwn},
	{Role: identity.RoleAdmin, Resource: ResourceLeave, Action: ActionReview},
	{Role: identity.RoleAdmin, Resource: ResourceNotification, Action: ActionRead},
	{Role: identity.RoleAdmin, Resource: ResourceNotification, Action: ActionSend},
	{Role: identity.RoleAdmin, Resource: ResourceNotification, Action: ActionDeleteAny},
}

type staticRepository struct {
	rows []RolePermissionRow
}

// NewRepository serves the built-in role policy. The role set is fixed by the
// identity provider, so there is no table behind it.
func NewRepository() Repository {
	return &staticRepository{rows: defaultPolicy}
}

func (r *staticRepository) GetRolePermissions() ([]RolePermissionRow, error) {
	out := make([]RolePermissionRow, len(r.rows))
	copy(out, r.rows)
	return out, nil
}
