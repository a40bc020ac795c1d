package session

import "strings"

// Role is the closed set of account roles known to the dashboards.
type Role int

const (
	RoleInvalid Role = iota
	RoleAdmin
	RoleOrganizer
	RoleStaff
	RoleStudent
)

// ParseRole maps a backend role name onto Role. Unknown names yield
// RoleInvalid, which no route admits.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin":
		return RoleAdmin
	case "organizer", "organiser":
		return RoleOrganizer
	case "staff":
		return RoleStaff
	case "student":
		return RoleStudent
	default:
		return RoleInvalid
	}
}

// String returns the role name as the backend spells it.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleOrganizer:
		return "Organizer"
	case RoleStaff:
		return "Staff"
	case RoleStudent:
		return "Student"
	default:
		return ""
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleStudent
}
