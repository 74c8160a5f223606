package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// ParseRole normalizes and validates a role string against the closed set.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Authority maps the role to its authorization-layer representation.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// User is the domain model for login identities.
type User struct {
	ID           int
	Username     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
