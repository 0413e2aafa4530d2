package models

import (
	"fmt"
	"time"
)

// Role is the closed set of application roles. Authorization checks go
// through this type, never raw strings.
type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanManageEvents reports whether the role may use the organizer surface.
// Admins implicitly hold organizer privileges.
func (r Role) CanManageEvents() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

type User struct {
	ID               string    `json:"id"`
	SubjectID        string    `json:"-"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	OrganizationName *string   `json:"organization_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
