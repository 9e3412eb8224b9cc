package domain

// Role distinguishes administrators from regular reporters.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// RoleForEmail derives the role assigned at registration. Only the
// configured administrator address is ever granted RoleAdmin.
func RoleForEmail(email, adminEmail string) Role {
	if email == adminEmail {
		return RoleAdmin
	}
	return RoleUser
}

// User is a registered reporter or administrator. Users are immutable
// once created.
type User struct {
	ID         int64
	Name       string
	Email      string
	Password   string
	Department string
	Role       Role
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
