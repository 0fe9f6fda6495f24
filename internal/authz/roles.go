package authz

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
