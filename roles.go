package gameshelf

// Role is an account's global role
type Role = string

const (
	// RoleUser is a regular catalog user (browse, wishlist, comment)
	RoleUser Role = "user"
	// RoleAdmin manages the catalog, users, and comments
	RoleAdmin Role = "admin"
)

// IsValidRole checks the role against the closed set we accept. Role values
// coming from an external identity provider get coerced at the boundary.
func IsValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// CoerceRole returns the parsed role, falling back to RoleUser
func CoerceRole(roleStr string) Role {
	if role, ok := ParseRole(roleStr); ok {
		return role
	}
	return RoleUser
}
