package domain

import (
	"errors"
	"strings"
	"time"

	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"
)

// Status is the duty state of a driver.
type Status string

const (
	StatusOffDuty   Status = "off_duty"
	StatusOnDuty    Status = "on_duty"
	StatusSuspended Status = "suspended"
)

var statusDisplay = map[Status]string{
	StatusOffDuty:   "Off Duty",
	StatusOnDuty:    "On Duty",
	StatusSuspended: "Suspended",
}

// Display returns the human label.
func (s Status) Display() string {
	if d, ok := statusDisplay[s]; ok {
		return d
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

// Compliance summarizes whether a driver may be assigned.
type Compliance string

const (
	Compliant      Compliance = "COMPLIANT"
	LicenseExpired Compliance = "LICENSE EXPIRED"
	Suspended      Compliance = "SUSPENDED"
)

// ExpiryWarningDays is how far ahead compliance alerts look for expiring licenses.
const ExpiryWarningDays = 30

// ErrDriverOnDuty is returned when suspending a driver who is on a trip.
var ErrDriverOnDuty = errors.New("cannot suspend a driver currently on duty")

// Driver is a fleet driver. Derived fields are computed by the backend; the
// methods below recompute them against a given day.
type Driver struct {
	ID               int64      `json:"id"`
	FullName         string     `json:"full_name"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email,omitempty"`
	LicenseNumber    string     `json:"license_number"`
	LicenseExpiry    dates.Date `json:"license_expiry"`
	Status           Status     `json:"status"`
	StatusDisplay    string     `json:"status_display,omitempty"`
	ComplianceStatus Compliance `json:"compliance_status,omitempty"`
	IsLicenseExpired bool       `json:"is_license_expired"`
	IsAvailable      *bool      `json:"is_available,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	User             *int64     `json:"user,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// Name returns the full name, falling back to first and last name.
func (d Driver) Name() string {
	if d.FullName != "" {
		return d.FullName
	}
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// LicenseExpired reports whether the license expired before today.
func (d Driver) LicenseExpired(today dates.Date) bool {
	return d.LicenseExpiry.Before(today)
}

// Compliance derives the compliance status. Suspension wins over expiry.
func (d Driver) Compliance(today dates.Date) Compliance {
	switch {
	case d.Status == StatusSuspended:
		return Suspended
	case d.LicenseExpired(today):
		return LicenseExpired
	default:
		return Compliant
	}
}

// Available reports whether the driver can take a new trip.
func (d Driver) Available(today dates.Date) bool {
	return d.Status == StatusOffDuty && !d.LicenseExpired(today)
}

// ExpiresWithin reports whether the license is still valid but expires in the next days days.
func (d Driver) ExpiresWithin(today dates.Date, days int) bool {
	return !d.LicenseExpired(today) && !today.AddDays(days).Before(d.LicenseExpiry)
}

// CanSuspend checks the local suspend precondition.
func (d Driver) CanSuspend() error {
	if d.Status == StatusOnDuty {
		return ErrDriverOnDuty
	}
	return nil
}

// Input is the create/update form. Nil fields are left out of the request.
type Input struct {
	FirstName     *string     `json:"first_name,omitempty"`
	LastName      *string     `json:"last_name,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
	Email         *string     `json:"email,omitempty"`
	LicenseNumber *string     `json:"license_number,omitempty"`
	LicenseExpiry *dates.Date `json:"license_expiry,omitempty"`
	Status        *Status     `json:"status,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
}

// ValidateCreate checks a new driver.
func (in Input) ValidateCreate() error {
	var b validation.Builder
	b.Check(nonEmpty(in.FirstName), "first_name", "This field is required.")
	b.Check(nonEmpty(in.LastName), "last_name", "This field is required.")
	b.Check(nonEmpty(in.Phone), "phone", "This field is required.")
	b.Check(nonEmpty(in.LicenseNumber), "license_number", "This field is required.")
	b.Check(in.LicenseExpiry != nil && !in.LicenseExpiry.IsZero(), "license_expiry", "This field is required.")
	in.checkValues(&b)
	return b.Err()
}

// ValidateUpdate checks a partial update.
func (in Input) ValidateUpdate() error {
	var b validation.Builder
	for field, v := range map[string]*string{
		"first_name":     in.FirstName,
		"last_name":      in.LastName,
		"phone":          in.Phone,
		"license_number": in.LicenseNumber,
	} {
		if v != nil {
			b.Check(nonEmpty(v), field, "This field may not be blank.")
		}
	}
	in.checkValues(&b)
	return b.Err()
}

func (in Input) checkValues(b *validation.Builder) {
	if in.Email != nil && *in.Email != "" {
		b.Check(strings.Contains(*in.Email, "@"), "email", "Enter a valid email address.")
	}
	if in.Status != nil {
		b.Check(in.Status.Valid(), "status", "\"%s\" is not a valid choice.", *in.Status)
	}
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// ComplianceAlerts groups drivers needing attention.
type ComplianceAlerts struct {
	ExpiredLicense []Driver `json:"expired_license"`
	ExpiringSoon   []Driver `json:"expiring_within_30_days"`
	Suspended      []Driver `json:"suspended"`
}

// Total returns the number of alert entries.
func (a ComplianceAlerts) Total() int {
	return len(a.ExpiredLicense) + len(a.ExpiringSoon) + len(a.Suspended)
}
