package domain

import (
	"strings"
	"time"

	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"

	"github.com/shopspring/decimal"
)

// Category groups operational costs for reporting.
type Category string

const (
	CategoryFuel        Category = "fuel"
	CategoryMaintenance Category = "maintenance"
	CategoryToll        Category = "toll"
	CategoryParking     Category = "parking"
	CategoryInsurance   Category = "insurance"
	CategorySalary      Category = "salary"
	CategoryOther       Category = "other"
)

var categoryDisplay = map[Category]string{
	CategoryFuel:        "Fuel",
	CategoryMaintenance: "Maintenance",
	CategoryToll:        "Toll / Road Tax",
	CategoryParking:     "Parking",
	CategoryInsurance:   "Insurance",
	CategorySalary:      "Driver Salary",
	CategoryOther:       "Other",
}

func (c Category) Display() string {
	if d, ok := categoryDisplay[c]; ok {
		return d
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryDisplay[c]
	return ok
}

// Expense is an operational cost, optionally tied to a vehicle or trip.
type Expense struct {
	ID              int64           `json:"id"`
	Vehicle         *int64          `json:"vehicle"`
	VehiclePlate    string          `json:"vehicle_plate,omitempty"`
	Trip            *int64          `json:"trip"`
	LoggedBy        *int64          `json:"logged_by,omitempty"`
	LoggedByName    string          `json:"logged_by_name,omitempty"`
	Category        Category        `json:"category"`
	CategoryDisplay string          `json:"category_display,omitempty"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Date            dates.Date      `json:"date"`
	ReceiptPhoto    *string         `json:"receipt_photo,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
}

// Input is the create/update form. Nil fields are left out of the request.
type Input struct {
	Vehicle     *int64           `json:"vehicle,omitempty"`
	Trip        *int64           `json:"trip,omitempty"`
	Category    *Category        `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *dates.Date      `json:"date,omitempty"`
}

func (in Input) ValidateCreate() error {
	var b validation.Builder
	b.Check(in.Category != nil, "category", "This field is required.")
	b.Check(in.Description != nil && strings.TrimSpace(*in.Description) != "", "description", "This field may not be blank.")
	b.Check(in.Amount != nil, "amount", "This field is required.")
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
	if in.Category != nil {
		b.Check(in.Category.Valid(), "category", "\"%s\" is not a valid choice.", *in.Category)
	}
	if in.Description != nil {
		b.Check(len(*in.Description) <= 200, "description", "Ensure this field has no more than 200 characters.")
	}
	if in.Amount != nil {
		b.Check(!in.Amount.IsNegative(), "amount", "Expense amount cannot be negative.")
	}
}
