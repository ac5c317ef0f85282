package domain

import (
	"strings"

	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"
)

// MinPasswordLength matches the backend's password rule.
const MinPasswordLength = 8

// Credentials are the login form values.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	var b validation.Builder
	b.Check(strings.TrimSpace(c.Username) != "", "username", "This field is required.")
	b.Check(c.Password != "", "password", "This field is required.")
	return b.Err()
}

// Registration is the self-service sign-up form.
type Registration struct {
	Username        string      `json:"username"`
	FirstName       string      `json:"first_name,omitempty"`
	LastName        string      `json:"last_name,omitempty"`
	Email           string      `json:"email,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirm_password"`
	Role            Role        `json:"role,omitempty"`
	LicenseNumber   string      `json:"license_number,omitempty"`
	LicenseExpiry   *dates.Date `json:"license_expiry,omitempty"`
}

// Validate mirrors the backend's registration rules so the form can flag
// problems before submitting.
func (r Registration) Validate() error {
	var b validation.Builder

	b.Check(strings.TrimSpace(r.Username) != "", "username", "This field is required.")
	b.Check(len(r.Password) >= MinPasswordLength, "password",
		"Ensure this field has at least %d characters.", MinPasswordLength)
	b.Check(r.Password == r.ConfirmPassword, "confirm_password", "Passwords do not match")

	if r.Role != "" && !r.Role.Valid() {
		b.Add("role", "Invalid role. Choose from: %s", strings.Join(RoleNames(), ", "))
	}

	if r.Role == RoleDriver {
		b.Check(strings.TrimSpace(r.LicenseNumber) != "", "license_number", "License number is required for drivers.")
		b.Check(r.LicenseExpiry != nil && !r.LicenseExpiry.IsZero(), "license_expiry", "License expiry is required for drivers.")
	}

	return b.Err()
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate checks the new password length.
func (p PasswordChange) Validate() error {
	var b validation.Builder
	b.Check(p.OldPassword != "", "old_password", "This field is required.")
	b.Check(len(p.NewPassword) >= MinPasswordLength, "new_password",
		"Ensure this field has at least %d characters.", MinPasswordLength)
	return b.Err()
}
