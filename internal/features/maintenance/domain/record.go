package domain

import (
	"errors"
	"strings"
	"time"

	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"

	"github.com/shopspring/decimal"
)

// Type is the kind of maintenance work.
type Type string

const (
	TypeOilChange    Type = "oil_change"
	TypeTireRotation Type = "tire_rotation"
	TypeBrakeService Type = "brake_service"
	TypeEngineRepair Type = "engine_repair"
	TypeScheduled    Type = "scheduled"
	TypeAccident     Type = "accident"
	TypeInspection   Type = "inspection"
	TypeOther        Type = "other"
)

var typeDisplay = map[Type]string{
	TypeOilChange:    "Oil Change",
	TypeTireRotation: "Tire Rotation",
	TypeBrakeService: "Brake Service",
	TypeEngineRepair: "Engine Repair",
	TypeScheduled:    "Scheduled Service",
	TypeAccident:     "Accident Repair",
	TypeInspection:   "Inspection",
	TypeOther:        "Other",
}

func (t Type) Display() string {
	if d, ok := typeDisplay[t]; ok {
		return d
	}
	return string(t)
}

func (t Type) Valid() bool {
	_, ok := typeDisplay[t]
	return ok
}

// Status is the progress of a maintenance job. Opening a job sends the
// vehicle to the shop; completing it returns the vehicle to the fleet.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// ErrAlreadyCompleted is returned when completing a finished job.
var ErrAlreadyCompleted = errors.New("maintenance already completed")

// Record is a maintenance job on one vehicle.
type Record struct {
	ID              int64           `json:"id"`
	Vehicle         int64           `json:"vehicle"`
	VehiclePlate    string          `json:"vehicle_plate,omitempty"`
	LoggedBy        *int64          `json:"logged_by,omitempty"`
	LoggedByName    string          `json:"logged_by_name,omitempty"`
	MaintenanceType Type            `json:"maintenance_type"`
	TypeDisplay     string          `json:"type_display,omitempty"`
	Description     string          `json:"description"`
	Status          Status          `json:"status"`
	StatusDisplay   string          `json:"status_display,omitempty"`
	StartDate       dates.Date      `json:"start_date"`
	CompletedDate   dates.Date      `json:"completed_date"`
	Cost            decimal.Decimal `json:"cost"`
	Vendor          string          `json:"vendor,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

// CanComplete checks the local complete precondition.
func (r Record) CanComplete() error {
	if r.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	return nil
}

// Input is the create/update form. Nil fields are left out of the request.
type Input struct {
	Vehicle         *int64           `json:"vehicle,omitempty"`
	MaintenanceType *Type            `json:"maintenance_type,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Status          *Status          `json:"status,omitempty"`
	StartDate       *dates.Date      `json:"start_date,omitempty"`
	CompletedDate   *dates.Date      `json:"completed_date,omitempty"`
	Cost            *decimal.Decimal `json:"cost,omitempty"`
	Vendor          *string          `json:"vendor,omitempty"`
}

func (in Input) ValidateCreate() error {
	var b validation.Builder
	b.Check(in.Vehicle != nil && *in.Vehicle > 0, "vehicle", "This field is required.")
	b.Check(in.MaintenanceType != nil, "maintenance_type", "This field is required.")
	b.Check(in.Description != nil && strings.TrimSpace(*in.Description) != "", "description", "This field is required.")
	in.checkValues(&b)
	return b.Err()
}

func (in Input) ValidateUpdate() error {
	var b validation.Builder
	if in.Description != nil {
		b.Check(strings.TrimSpace(*in.Description) != "", "description", "This field may not be blank.")
	}
	in.checkValues(&b)
	return b.Err()
}

func (in Input) checkValues(b *validation.Builder) {
	if in.MaintenanceType != nil {
		b.Check(in.MaintenanceType.Valid(), "maintenance_type", "\"%s\" is not a valid choice.", *in.MaintenanceType)
	}
	if in.Status != nil {
		b.Check(in.Status.Valid(), "status", "\"%s\" is not a valid choice.", *in.Status)
	}
	if in.Cost != nil {
		b.Check(!in.Cost.IsNegative(), "cost", "Ensure this value is greater than or equal to 0.")
	}
	if in.StartDate != nil && in.CompletedDate != nil && !in.CompletedDate.IsZero() {
		b.Check(!in.CompletedDate.Before(*in.StartDate), "completed_date", "Completed date cannot be before the start date.")
	}
}
