package domain

import (
	"errors"
	"net/mail"
	"strings"

	"fleet-admin/internal/core/validation"
	authdomain "fleet-admin/internal/features/auth/domain"
)

// ErrSelfDelete is returned when a manager tries to delete their own account.
var ErrSelfDelete = errors.New("cannot delete own account")

// User is the backend user profile.
type User = authdomain.User

// NewUser is the manager's create-user form. The backend hashes Password.
type NewUser struct {
	Username  string          `json:"username"`
	FirstName string          `json:"first_name,omitempty"`
	LastName  string          `json:"last_name,omitempty"`
	Email     string          `json:"email,omitempty"`
	Password  string          `json:"password"`
	Role      authdomain.Role `json:"role"`
	Phone     string          `json:"phone,omitempty"`
}

func (u NewUser) Validate() error {
	var b validation.Builder
	b.Check(strings.TrimSpace(u.Username) != "", "username", "This field is required.")
	b.Check(len(u.Password) >= authdomain.MinPasswordLength, "password",
		"Ensure this field has at least %d characters.", authdomain.MinPasswordLength)
	checkRole(&b, u.Role)
	checkEmail(&b, u.Email)
	return b.Err()
}

// Update is a partial update. Password changes go through the user's own
// change-password flow, not this form.
type Update struct {
	Username  *string          `json:"username,omitempty"`
	FirstName *string          `json:"first_name,omitempty"`
	LastName  *string          `json:"last_name,omitempty"`
	Email     *string          `json:"email,omitempty"`
	Role      *authdomain.Role `json:"role,omitempty"`
	Phone     *string          `json:"phone,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

func (u Update) Validate() error {
	var b validation.Builder
	if u.Username != nil {
		b.Check(strings.TrimSpace(*u.Username) != "", "username", "This field may not be blank.")
	}
	if u.Role != nil {
		checkRole(&b, *u.Role)
	}
	if u.Email != nil {
		checkEmail(&b, *u.Email)
	}
	return b.Err()
}

func checkRole(b *validation.Builder, r authdomain.Role) {
	if !r.Valid() {
		b.Add("role", "Invalid role. Choose from: %s", strings.Join(authdomain.RoleNames(), ", "))
	}
}

func checkEmail(b *validation.Builder, email string) {
	if email == "" {
		return
	}
	addr, err := mail.ParseAddress(email)
	b.Check(err == nil && addr.Address == email, "email", "Enter a valid email address.")
}
