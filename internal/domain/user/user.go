package user

import (
	"time"

	"jobportal/internal/common"
)

type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleSeeker, RoleProvider, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

type User struct {
	ID        common.UUID `json:"id"`
	Role      Role        `json:"role"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	CreatedAt time.Time   `json:"created_at"`
}
