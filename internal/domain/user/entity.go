package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Sees every employee's attendance and overtime
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// Principal is the authenticated caller, passed explicitly into services that branch on role.
type Principal struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       Role
}

// IsManager checks if the caller is manager or owner
func (p Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleOwner
}

// Can reports whether the caller's role grants permission.
func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}

// ParseRole converts a claim value into a Role. Unknown values map to RolePending.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleOwner, RoleManager, RoleEmployee:
		return Role(s)
	default:
		return RolePending
	}
}
