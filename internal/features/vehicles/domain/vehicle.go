package domain

import (
	"errors"
	"strings"
	"time"

	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"

	"github.com/shopspring/decimal"
)

// Status is the operational state of a vehicle. The backend changes it as a
// side effect of trips and maintenance.
type Status string

const (
	StatusAvailable Status = "available"
	StatusOnTrip    Status = "on_trip"
	StatusInShop    Status = "in_shop"
	StatusRetired   Status = "retired"
)

var statusDisplay = map[Status]string{
	StatusAvailable: "Available",
	StatusOnTrip:    "On Trip",
	StatusInShop:    "In Shop",
	StatusRetired:   "Retired",
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

// Type is the vehicle body type.
type Type string

const (
	TypeTruck   Type = "truck"
	TypeVan     Type = "van"
	TypePickup  Type = "pickup"
	TypeTanker  Type = "tanker"
	TypeTrailer Type = "trailer"
)

var typeDisplay = map[Type]string{
	TypeTruck:   "Truck",
	TypeVan:     "Van",
	TypePickup:  "Pickup",
	TypeTanker:  "Tanker",
	TypeTrailer: "Trailer",
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	_, ok := typeDisplay[t]
	return ok
}

var (
	// ErrVehicleOnTrip is returned when retiring a vehicle that is on a trip.
	ErrVehicleOnTrip = errors.New("cannot retire a vehicle currently on a trip")
	// ErrAlreadyRetired is returned when retiring a retired vehicle.
	ErrAlreadyRetired = errors.New("vehicle is already retired")
)

// Vehicle is a fleet vehicle. The detail fields are only present on single
// vehicle responses.
type Vehicle struct {
	ID            int64           `json:"id"`
	LicensePlate  string          `json:"license_plate"`
	Make          string          `json:"make"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	VehicleType   Type            `json:"vehicle_type"`
	TypeDisplay   string          `json:"type_display,omitempty"`
	CapacityKg    decimal.Decimal `json:"capacity_kg"`
	OdometerKm    decimal.Decimal `json:"odometer_km"`
	Status        Status          `json:"status"`
	StatusDisplay string          `json:"status_display,omitempty"`

	AcquisitionCost      *decimal.Decimal `json:"acquisition_cost,omitempty"`
	AcquisitionDate      *dates.Date      `json:"acquisition_date,omitempty"`
	Notes                string           `json:"notes,omitempty"`
	TotalFuelCost        *decimal.Decimal `json:"total_fuel_cost,omitempty"`
	TotalMaintenanceCost *decimal.Decimal `json:"total_maintenance_cost,omitempty"`
	TotalOperationalCost *decimal.Decimal `json:"total_operational_cost,omitempty"`
	TotalRevenue         *decimal.Decimal `json:"total_revenue,omitempty"`
	ROI                  *decimal.Decimal `json:"roi,omitempty"`
	CreatedAt            *time.Time       `json:"created_at,omitempty"`
	UpdatedAt            *time.Time       `json:"updated_at,omitempty"`
}

// Available reports whether the vehicle can be assigned to a new trip.
func (v Vehicle) Available() bool {
	return v.Status == StatusAvailable
}

// CanCarry reports whether weight fits the vehicle's capacity.
func (v Vehicle) CanCarry(weightKg decimal.Decimal) bool {
	return weightKg.LessThanOrEqual(v.CapacityKg)
}

// CanRetire checks the local retire precondition.
func (v Vehicle) CanRetire() error {
	switch v.Status {
	case StatusOnTrip:
		return ErrVehicleOnTrip
	case StatusRetired:
		return ErrAlreadyRetired
	}
	return nil
}

// Label is the plate followed by make and model, used in pickers.
func (v Vehicle) Label() string {
	return strings.TrimSpace(v.LicensePlate + " " + v.Make + " " + v.Model)
}

// Input is the create/update form. Nil fields are left out of the request.
type Input struct {
	LicensePlate    *string          `json:"license_plate,omitempty"`
	Make            *string          `json:"make,omitempty"`
	Model           *string          `json:"model,omitempty"`
	Year            *int             `json:"year,omitempty"`
	VehicleType     *Type            `json:"vehicle_type,omitempty"`
	CapacityKg      *decimal.Decimal `json:"capacity_kg,omitempty"`
	OdometerKm      *decimal.Decimal `json:"odometer_km,omitempty"`
	AcquisitionCost *decimal.Decimal `json:"acquisition_cost,omitempty"`
	AcquisitionDate *dates.Date      `json:"acquisition_date,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// ValidateCreate checks a new vehicle.
func (in Input) ValidateCreate() error {
	var b validation.Builder
	b.Check(nonEmpty(in.LicensePlate), "license_plate", "This field is required.")
	b.Check(nonEmpty(in.Make), "make", "This field is required.")
	b.Check(nonEmpty(in.Model), "model", "This field is required.")
	b.Check(in.Year != nil, "year", "This field is required.")
	b.Check(in.CapacityKg != nil, "capacity_kg", "This field is required.")
	in.checkValues(&b)
	return b.Err()
}

// ValidateUpdate checks a partial update against the current record.
// The odometer may not go backwards.
func (in Input) ValidateUpdate(current Vehicle) error {
	var b validation.Builder
	if in.LicensePlate != nil {
		b.Check(nonEmpty(in.LicensePlate), "license_plate", "This field may not be blank.")
	}
	if in.OdometerKm != nil && in.OdometerKm.LessThan(current.OdometerKm) {
		b.Add("odometer_km", "Odometer cannot decrease.")
	}
	in.checkValues(&b)
	return b.Err()
}

func (in Input) checkValues(b *validation.Builder) {
	if in.Year != nil {
		b.Check(*in.Year >= 1900 && *in.Year <= time.Now().Year()+1, "year", "Enter a valid year.")
	}
	if in.VehicleType != nil {
		b.Check(in.VehicleType.Valid(), "vehicle_type", "\"%s\" is not a valid choice.", *in.VehicleType)
	}
	if in.CapacityKg != nil {
		b.Check(in.CapacityKg.IsPositive(), "capacity_kg", "Capacity must be greater than 0.")
	}
	if in.OdometerKm != nil {
		b.Check(!in.OdometerKm.IsNegative(), "odometer_km", "Ensure this value is greater than or equal to 0.")
	}
	if in.AcquisitionCost != nil {
		b.Check(!in.AcquisitionCost.IsNegative(), "acquisition_cost", "Ensure this value is greater than or equal to 0.")
	}
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// ROIReport is the backend's per-vehicle return-on-investment summary.
type ROIReport struct {
	Vehicle              string          `json:"vehicle"`
	AcquisitionCost      decimal.Decimal `json:"acquisition_cost"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalFuelCost        decimal.Decimal `json:"total_fuel_cost"`
	TotalMaintenanceCost decimal.Decimal `json:"total_maintenance_cost"`
	TotalOperationalCost decimal.Decimal `json:"total_operational_cost"`
	NetProfit            decimal.Decimal `json:"net_profit"`
	ROIPercent           decimal.Decimal `json:"roi_percent"`
}
