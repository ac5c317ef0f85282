package domain

import (
	"time"

	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"

	"github.com/shopspring/decimal"
)

// Log is one fill-up. TotalCost is computed by the backend.
type Log struct {
	ID            int64           `json:"id"`
	Vehicle       int64           `json:"vehicle"`
	VehiclePlate  string          `json:"vehicle_plate,omitempty"`
	Trip          *int64          `json:"trip"`
	LoggedBy      *int64          `json:"logged_by,omitempty"`
	LoggedByName  string          `json:"logged_by_name,omitempty"`
	Date          dates.Date      `json:"date"`
	Liters        decimal.Decimal `json:"liters"`
	PricePerLiter decimal.Decimal `json:"price_per_liter"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	OdometerKm    decimal.Decimal `json:"odometer_km"`
	FuelStation   string          `json:"fuel_station,omitempty"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
}

// Input is the create/update form. Nil fields are left out of the request.
type Input struct {
	Vehicle       *int64           `json:"vehicle,omitempty"`
	Trip          *int64           `json:"trip,omitempty"`
	Date          *dates.Date      `json:"date,omitempty"`
	Liters        *decimal.Decimal `json:"liters,omitempty"`
	PricePerLiter *decimal.Decimal `json:"price_per_liter,omitempty"`
	OdometerKm    *decimal.Decimal `json:"odometer_km,omitempty"`
	FuelStation   *string          `json:"fuel_station,omitempty"`
}

func (in Input) ValidateCreate() error {
	var b validation.Builder
	b.Check(in.Vehicle != nil && *in.Vehicle > 0, "vehicle", "This field is required.")
	b.Check(in.Liters != nil, "liters", "This field is required.")
	b.Check(in.PricePerLiter != nil, "price_per_liter", "This field is required.")
	b.Check(in.OdometerKm != nil, "odometer_km", "This field is required.")
	in.checkValues(&b)
	return b.Err()
}

func (in Input) ValidateUpdate() error {
	var b validation.Builder
	in.checkValues(&b)
	return b.Err()
}

func (in Input) checkValues(b *validation.Builder) {
	if in.Liters != nil {
		b.Check(in.Liters.IsPositive(), "liters", "Fuel liters must be greater than 0.")
	}
	if in.PricePerLiter != nil {
		b.Check(in.PricePerLiter.IsPositive(), "price_per_liter", "Price per liter must be greater than 0.")
	}
	if in.OdometerKm != nil {
		b.Check(!in.OdometerKm.IsNegative(), "odometer_km", "Ensure this value is greater than or equal to 0.")
	}
}

// EstimatedTotal previews the cost the backend will store, rounded to cents.
// ok is false until both liters and price are set.
func (in Input) EstimatedTotal() (total decimal.Decimal, ok bool) {
	if in.Liters == nil || in.PricePerLiter == nil {
		return decimal.Zero, false
	}
	return in.Liters.Mul(*in.PricePerLiter).Round(2), true
}

// Efficiency is one row of the per-vehicle fuel efficiency report.
type Efficiency struct {
	Vehicle         string          `json:"vehicle"`
	MakeModel       string          `json:"make_model"`
	TotalLiters     decimal.Decimal `json:"total_liters"`
	TotalFuelCost   decimal.Decimal `json:"total_fuel_cost"`
	TotalDistanceKm decimal.Decimal `json:"total_distance_km"`
	KmPerLiter      decimal.Decimal `json:"km_per_liter"`
}

// Estimate is returned by the cost preview endpoint.
type Estimate struct {
	TotalCost decimal.Decimal `json:"total_cost"`
}
