package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is a backend user role.
type Role string

const (
	RoleManager       Role = "manager"
	RoleDispatcher    Role = "dispatcher"
	RoleSafetyOfficer Role = "safety_officer"
	RoleAnalyst       Role = "analyst"
	RoleDriver        Role = "driver"
)

// Roles lists every role the backend accepts.
var Roles = []Role{RoleManager, RoleDispatcher, RoleSafetyOfficer, RoleAnalyst, RoleDriver}

var roleDisplay = map[Role]string{
	RoleManager:       "Manager",
	RoleDispatcher:    "Dispatcher",
	RoleSafetyOfficer: "Safety Officer",
	RoleAnalyst:       "Analyst",
	RoleDriver:        "Driver",
}

// ErrInvalidRole is returned when a role is not one of Roles.
var ErrInvalidRole = errors.New("invalid role")

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleDisplay[r]
	return ok
}

// Display returns the human label for r.
func (r Role) Display() string {
	if d, ok := roleDisplay[r]; ok {
		return d
	}
	return string(r)
}

// ParseRole validates s as a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// RoleNames returns the roles as strings, in declaration order.
func RoleNames() []string {
	out := make([]string, len(Roles))
	for i, r := range Roles {
		out[i] = string(r)
	}
	return out
}

// User is a backend user profile. The login response carries only a subset
// of these fields; /auth/me/ and /users/ carry the rest.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	RoleDisplay string     `json:"role_display,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	DateJoined  *time.Time `json:"date_joined,omitempty"`
}

// DisplayName is the name shown in the UI header.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// HasRole reports whether the user holds any of roles.
func (u User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// ProfileUpdate is a partial update of the signed-in user's own profile.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}
