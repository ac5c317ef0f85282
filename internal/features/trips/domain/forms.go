package domain

import (
	"strings"

	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"
	drivers "fleet-admin/internal/features/drivers/domain"
	vehicles "fleet-admin/internal/features/vehicles/domain"

	"github.com/shopspring/decimal"
)

// NewTrip is the creation form. Status is never sent: trips start as drafts.
type NewTrip struct {
	Vehicle          int64            `json:"vehicle"`
	Driver           int64            `json:"driver"`
	Origin           string           `json:"origin"`
	Destination      string           `json:"destination"`
	ScheduledDate    dates.Date       `json:"scheduled_date"`
	CargoDescription string           `json:"cargo_description,omitempty"`
	CargoWeightKg    decimal.Decimal  `json:"cargo_weight_kg"`
	Revenue          *decimal.Decimal `json:"revenue,omitempty"`
	DistanceKm       *decimal.Decimal `json:"distance_km,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// Validate checks the form on its own.
func (n NewTrip) Validate(today dates.Date) error {
	var b validation.Builder
	b.Check(n.Vehicle > 0, "vehicle", "This field is required.")
	b.Check(n.Driver > 0, "driver", "This field is required.")
	b.Check(strings.TrimSpace(n.Origin) != "", "origin", "This field is required.")
	b.Check(strings.TrimSpace(n.Destination) != "", "destination", "This field is required.")
	switch {
	case n.ScheduledDate.IsZero():
		b.Add("scheduled_date", "This field is required.")
	case n.ScheduledDate.Before(today):
		b.Add("scheduled_date", "Scheduled date cannot be in the past.")
	}
	b.Check(!n.CargoWeightKg.IsNegative(), "cargo_weight_kg", "Ensure this value is greater than or equal to 0.")
	if n.Revenue != nil {
		b.Check(!n.Revenue.IsNegative(), "revenue", "Ensure this value is greater than or equal to 0.")
	}
	if n.DistanceKm != nil {
		b.Check(!n.DistanceKm.IsNegative(), "distance_km", "Ensure this value is greater than or equal to 0.")
	}
	return b.Err()
}

// CheckAssignment checks the chosen vehicle and driver. Either may be nil
// when it could not be looked up; the backend then has the final word.
func (n NewTrip) CheckAssignment(v *vehicles.Vehicle, d *drivers.Driver, today dates.Date) error {
	var b validation.Builder
	if v != nil {
		if !v.Available() {
			b.Add("vehicle", "Vehicle %s is %s and cannot be assigned.", v.LicensePlate, v.Status.Display())
		}
		if !v.CanCarry(n.CargoWeightKg) {
			b.Add(validation.NonField, "Cargo (%s kg) exceeds vehicle capacity (%s kg).",
				n.CargoWeightKg.StringFixed(2), v.CapacityKg.StringFixed(2))
		}
	}
	if d != nil {
		switch d.Compliance(today) {
		case drivers.LicenseExpired:
			b.Add(validation.NonField, "Driver %s's license is expired.", d.Name())
		case drivers.Suspended:
			b.Add(validation.NonField, "Driver %s is suspended.", d.Name())
		}
	}
	return b.Err()
}

// CompleteInput optionally records the final distance and revenue.
type CompleteInput struct {
	DistanceKm *decimal.Decimal `json:"distance_km,omitempty"`
	Revenue    *decimal.Decimal `json:"revenue,omitempty"`
}

// Validate rejects negative figures.
func (in CompleteInput) Validate() error {
	var b validation.Builder
	if in.DistanceKm != nil {
		b.Check(!in.DistanceKm.IsNegative(), "distance_km", "Ensure this value is greater than or equal to 0.")
	}
	if in.Revenue != nil {
		b.Check(!in.Revenue.IsNegative(), "revenue", "Ensure this value is greater than or equal to 0.")
	}
	return b.Err()
}

// Update holds the fields that may change after creation. Assignment and
// route are fixed; status only moves through actions.
type Update struct {
	Notes      *string          `json:"notes,omitempty"`
	Revenue    *decimal.Decimal `json:"revenue,omitempty"`
	DistanceKm *decimal.Decimal `json:"distance_km,omitempty"`
}

// Validate rejects negative figures and empty updates.
func (u Update) Validate() error {
	var b validation.Builder
	b.Check(u.Notes != nil || u.Revenue != nil || u.DistanceKm != nil,
		validation.NonField, "No changes submitted.")
	if u.Revenue != nil {
		b.Check(!u.Revenue.IsNegative(), "revenue", "Ensure this value is greater than or equal to 0.")
	}
	if u.DistanceKm != nil {
		b.Check(!u.DistanceKm.IsNegative(), "distance_km", "Ensure this value is greater than or equal to 0.")
	}
	return b.Err()
}
