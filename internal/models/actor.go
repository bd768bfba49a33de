package models

// Role is the role claim carried by tokens of the external auth service.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Claims identifies the user acting on a request.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleOperator, RoleViewer:
		return true
	default:
		return false
	}
}

// CanWrite reports whether the role may create, change or delete records.
func (c *Claims) CanWrite() bool {
	switch c.Role {
	case RoleAdmin, RoleManager, RoleOperator:
		return true
	default:
		return false
	}
}
