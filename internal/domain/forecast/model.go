package forecast

import "time"

// Horizons supported by the simulator.
const (
	DefaultHorizon = 5
	MaxHorizon     = 14
)

// ProcedureAdmission is one record of the external scheduled-procedure feed.
// Read-only input; the feed predicts a post-procedure stay split into an ICU
// span followed by a floor span.
type ProcedureAdmission struct {
	MRN       string    `json:"mrn"`
	VisitDate time.Time `json:"visit_date"`
	WillAdmit bool      `json:"will_admit"`
	ICUDays   int       `json:"icu_days"`
	ICUUnit   string    `json:"icu_unit"`
	FloorDays int       `json:"floor_days"`
	FloorUnit string    `json:"floor_unit"`
}

// DayForecast is one projected day for one unit.
type DayForecast struct {
	Day                 int       `json:"day"`
	Date                time.Time `json:"date"`
	ProjectedCensus     int       `json:"projected_census"`
	PredictedDischarges int       `json:"predicted_discharges"`
	PredictedDowngrades int       `json:"predicted_downgrades"`
	PredictedAdmits     int       `json:"predicted_admits"`
	NetChange           int       `json:"net_change"`
}

// UnitForecast is the projection for one unit over the horizon.
type UnitForecast struct {
	Unit          string        `json:"unit"`
	UnitType      string        `json:"unit_type"`
	CurrentCensus int           `json:"current_census"`
	Days          []DayForecast `json:"days"`
}
