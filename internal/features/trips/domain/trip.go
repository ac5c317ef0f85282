package domain

import (
	"errors"
	"fmt"
	"time"

	"fleet-admin/internal/core/dates"

	"github.com/shopspring/decimal"
)

// Status is a trip lifecycle state.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusDispatched Status = "dispatched"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var statusDisplay = map[Status]string{
	StatusDraft:      "Draft",
	StatusDispatched: "Dispatched",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
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

// IsTerminal reports whether no further action is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Action is a lifecycle transition request.
type Action string

const (
	ActionDispatch Action = "dispatch"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// transitions lists every legal (from, action) pair.
var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionDispatch: StatusDispatched,
		ActionCancel:   StatusCancelled,
	},
	StatusDispatched: {
		ActionComplete: StatusCompleted,
		ActionCancel:   StatusCancelled,
	},
}

var (
	// ErrInvalidTransition is matched by every *TransitionError.
	ErrInvalidTransition = errors.New("invalid trip transition")
	// ErrTripClosed is returned when editing a completed or cancelled trip.
	ErrTripClosed = errors.New("trip is closed")
	// ErrTripActive is returned when deleting a dispatched or completed trip.
	ErrTripActive = errors.New("only draft or cancelled trips can be deleted")
)

// TransitionError reports an action that is not legal from the trip's state.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s trip", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Message is the notification shown for the rejected action.
func (e *TransitionError) Message() string {
	switch e.Action {
	case ActionDispatch:
		return fmt.Sprintf("Trip is %s. Only Draft trips can be dispatched.", e.From)
	case ActionComplete:
		return "Only dispatched trips can be completed."
	case ActionCancel:
		if e.From == StatusCompleted {
			return "Cannot cancel a completed trip."
		}
		return "Trip is already cancelled."
	}
	return fmt.Sprintf("Cannot %s a %s trip.", e.Action, e.From.Display())
}

// Transition returns the state reached by applying a to from.
func Transition(from Status, a Action) (Status, error) {
	if to, ok := transitions[from][a]; ok {
		return to, nil
	}
	return from, &TransitionError{From: from, Action: a}
}

// Actions lists the actions available from s, in display order.
func Actions(s Status) []Action {
	var out []Action
	for _, a := range []Action{ActionDispatch, ActionComplete, ActionCancel} {
		if _, ok := transitions[s][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Trip is a cargo assignment. List responses carry the summary fields only;
// detail responses add the ids and nested vehicle and driver info.
type Trip struct {
	ID               int64           `json:"id"`
	Vehicle          int64           `json:"vehicle,omitempty"`
	Driver           int64           `json:"driver,omitempty"`
	VehiclePlate     string          `json:"vehicle_plate,omitempty"`
	DriverName       string          `json:"driver_name,omitempty"`
	Origin           string          `json:"origin"`
	Destination      string          `json:"destination"`
	ScheduledDate    dates.Date      `json:"scheduled_date"`
	CompletedDate    dates.Date      `json:"completed_date"`
	CargoDescription string          `json:"cargo_description,omitempty"`
	CargoWeightKg    decimal.Decimal `json:"cargo_weight_kg"`
	Revenue          decimal.Decimal `json:"revenue"`
	DistanceKm       decimal.Decimal `json:"distance_km"`
	Status           Status          `json:"status"`
	StatusDisplay    string          `json:"status_display,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        *int64          `json:"created_by,omitempty"`
	CreatedByName    string          `json:"created_by_name,omitempty"`

	VehicleInfo   *VehicleInfo     `json:"vehicle_info,omitempty"`
	DriverInfo    *DriverInfo      `json:"driver_info,omitempty"`
	TotalExpenses *decimal.Decimal `json:"total_expenses,omitempty"`
	CreatedAt     *time.Time       `json:"created_at,omitempty"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

// VehicleInfo is the vehicle summary nested in a trip detail.
type VehicleInfo struct {
	ID           int64           `json:"id"`
	LicensePlate string          `json:"license_plate"`
	Make         string          `json:"make"`
	Model        string          `json:"model"`
	CapacityKg   decimal.Decimal `json:"capacity_kg"`
	Status       string          `json:"status"`
}

// DriverInfo is the driver summary nested in a trip detail.
type DriverInfo struct {
	ID               int64      `json:"id"`
	FullName         string     `json:"full_name"`
	LicenseNumber    string     `json:"license_number"`
	LicenseExpiry    dates.Date `json:"license_expiry"`
	Status           string     `json:"status"`
	ComplianceStatus string     `json:"compliance_status"`
}

// Can checks whether a is legal for the trip's current status.
func (t Trip) Can(a Action) error {
	_, err := Transition(t.Status, a)
	return err
}

// CanEdit rejects edits to closed trips.
func (t Trip) CanEdit() error {
	if t.Status.IsTerminal() {
		return ErrTripClosed
	}
	return nil
}

// CanDelete allows deleting drafts and cancelled trips only. Completed trips
// carry revenue and dispatched ones hold a vehicle.
func (t Trip) CanDelete() error {
	if t.Status == StatusDraft || t.Status == StatusCancelled {
		return nil
	}
	return ErrTripActive
}

// DispatchResult is the backend's dispatch acknowledgement.
type DispatchResult struct {
	Message       string `json:"message"`
	VehicleStatus string `json:"vehicle_status"`
	DriverStatus  string `json:"driver_status"`
}

// ErrStale is returned when the backend confirmed an action but the trip
// could not be reloaded afterwards. The caller's copy is out of date.
var ErrStale = errors.New("trip changed but could not be reloaded")
