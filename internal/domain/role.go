package domain

// Role is an authorization scope attached to a bearer token.
// Roles do not form a hierarchy: admin does not satisfy a user requirement.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Identity is the caller resolved from a bearer token for one request.
// It is never persisted.
type Identity struct {
	Role Role
}
