package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// KPIs is the backend's dashboard summary. Every role sees the same figures.
type KPIs struct {
	TotalVehicles     int     `json:"total_vehicles"`
	ActiveFleet       int     `json:"active_fleet"`
	VehiclesAvailable int     `json:"vehicles_available"`
	VehiclesInShop    int     `json:"vehicles_in_shop"`
	VehiclesRetired   int     `json:"vehicles_retired"`
	UtilizationRate   float64 `json:"utilization_rate"`

	TotalTrips      int `json:"total_trips"`
	TripsInDraft    int `json:"trips_in_draft"`
	TripsDispatched int `json:"trips_dispatched"`
	TripsCompleted  int `json:"trips_completed"`

	TotalDrivers          int `json:"total_drivers"`
	DriversOnDuty         int `json:"drivers_on_duty"`
	DriversSuspended      int `json:"drivers_suspended"`
	DriversExpiredLicense int `json:"drivers_expired_license"`

	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalFuelCost        decimal.Decimal `json:"total_fuel_cost"`
	TotalMaintenanceCost decimal.Decimal `json:"total_maintenance_cost"`
	TotalExpenses        decimal.Decimal `json:"total_expenses"`
	NetProfit            decimal.Decimal `json:"net_profit"`

	MaintenanceAlerts int `json:"maintenance_alerts"`
}

// Level is the severity of a dashboard alert.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelDanger  Level = "DANGER"
)

// Alert is a header notice derived from the KPIs.
type Alert struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Level    Level  `json:"level"`
}

// Alerts lists the conditions that need attention, most severe first.
func (k KPIs) Alerts() []Alert {
	alerts := []Alert{}
	if k.DriversExpiredLicense > 0 {
		alerts = append(alerts, Alert{
			Title:    fmt.Sprintf("%d %s with an expired license", k.DriversExpiredLicense, plural(k.DriversExpiredLicense, "driver")),
			Subtitle: "They cannot be assigned to trips until renewed.",
			Level:    LevelDanger,
		})
	}
	if k.DriversSuspended > 0 {
		alerts = append(alerts, Alert{
			Title: fmt.Sprintf("%d %s suspended", k.DriversSuspended, plural(k.DriversSuspended, "driver")),
			Level: LevelWarning,
		})
	}
	if k.MaintenanceAlerts > 0 {
		alerts = append(alerts, Alert{
			Title: fmt.Sprintf("%d open maintenance %s", k.MaintenanceAlerts, plural(k.MaintenanceAlerts, "job")),
			Level: LevelWarning,
		})
	}
	if k.VehiclesInShop > 0 {
		alerts = append(alerts, Alert{
			Title: fmt.Sprintf("%d %s in shop", k.VehiclesInShop, plural(k.VehiclesInShop, "vehicle")),
			Level: LevelInfo,
		})
	}
	return alerts
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Snapshot is what the dashboard endpoint serves.
type Snapshot struct {
	KPIs      KPIs      `json:"kpis"`
	Alerts    []Alert   `json:"alerts"`
	FetchedAt time.Time `json:"fetched_at"`
	// Cached is true when the snapshot came from the shared cache.
	Cached bool `json:"cached"`
}

// NewSnapshot stamps k with its alerts and fetch time.
func NewSnapshot(k KPIs, at time.Time) *Snapshot {
	return &Snapshot{KPIs: k, Alerts: k.Alerts(), FetchedAt: at}
}
