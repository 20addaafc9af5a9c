package domain

import "strings"

// Role is the kind of actor resolved by the identity provider.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleNone    Role = "norole"
)

// ParseRole maps a raw claim to a Role. Missing or unknown claims become RoleNone.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTeacher:
		return RoleTeacher
	case RoleStudent:
		return RoleStudent
	case RoleParent:
		return RoleParent
	default:
		return RoleNone
	}
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated actor making a request.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.ID) != ""
}
