package staffing

import (
	"time"

	"github.com/censusops/census/internal/domain/census"
	"github.com/censusops/census/internal/domain/units"
)

// Nurse-to-patient ratios. One-to-one patients sit outside ratio math and
// each count as one dedicated nurse.
const (
	ICURatio   = 2
	FloorRatio = 5
)

// UnitStaffing is one unit's AM/PM staffing derivation.
type UnitStaffing struct {
	Unit          string `json:"unit"`
	UnitType      string `json:"unit_type"`
	CurrentCensus int    `json:"current_census"`
	OneToOne      int    `json:"one_to_one"`
	AmDischarges  int    `json:"am_discharges"`
	PmDischarges  int    `json:"pm_discharges"`
	AmDowngrades  int    `json:"am_downgrades"`
	AmEndCensus   int    `json:"am_end_census"`
	PmEndCensus   int    `json:"pm_end_census"`
	AmRnNeeded    int    `json:"am_rn_needed"`
	PmRnNeeded    int    `json:"pm_rn_needed"`
	TotalAmRn     int    `json:"total_am_rn"`
	TotalPmRn     int    `json:"total_pm_rn"`
}

// Totals aggregates staffing across all units.
type Totals struct {
	CurrentCensus int `json:"current_census"`
	OneToOne      int `json:"one_to_one"`
	TotalAmRn     int `json:"total_am_rn"`
	TotalPmRn     int `json:"total_pm_rn"`
}

// Compute derives per-unit AM/PM nurse needs from the active patient set of
// one import. Downgrades only apply to ICU units and are anchored to the
// import's upload date. Pure; no store access.
func Compute(patients []*census.PatientRecord, uploadDate time.Time) ([]*UnitStaffing, Totals) {
	byUnit := make(map[string]*UnitStaffing)
	for _, p := range patients {
		us, ok := byUnit[p.CurrentUnit]
		if !ok {
			us = &UnitStaffing{Unit: p.CurrentUnit, UnitType: p.UnitType}
			byUnit[p.CurrentUnit] = us
		}
		us.CurrentCensus++
		if p.OneToOne {
			us.OneToOne++
		}
		pdd := p.ProjectedDischargeDays
		if pdd != nil && *pdd <= 1 {
			us.AmDischarges++
		}
		if pdd != nil && *pdd == 2 {
			us.PmDischarges++
		}
		if us.UnitType == units.TypeICU {
			if (p.DowngradeDate != nil && sameDay(*p.DowngradeDate, uploadDate)) ||
				(pdd != nil && *pdd <= 2) {
				us.AmDowngrades++
			}
		}
	}

	result := make([]*UnitStaffing, 0, len(byUnit))
	totals := Totals{}
	for _, us := range byUnit {
		ratio := FloorRatio
		if us.UnitType == units.TypeICU {
			ratio = ICURatio
		}
		us.AmEndCensus = clamp(us.CurrentCensus - us.AmDischarges - us.AmDowngrades)
		us.PmEndCensus = clamp(us.CurrentCensus - us.AmDischarges - us.PmDischarges - us.AmDowngrades)
		regularAM := clamp(us.AmEndCensus - us.OneToOne)
		regularPM := clamp(us.PmEndCensus - us.OneToOne)
		us.AmRnNeeded = ceilDiv(regularAM, ratio)
		us.PmRnNeeded = ceilDiv(regularPM, ratio)
		us.TotalAmRn = us.AmRnNeeded + us.OneToOne
		us.TotalPmRn = us.PmRnNeeded + us.OneToOne

		totals.CurrentCensus += us.CurrentCensus
		totals.OneToOne += us.OneToOne
		totals.TotalAmRn += us.TotalAmRn
		totals.TotalPmRn += us.TotalPmRn
		result = append(result, us)
	}

	census.SortUnitsICUFirst(result, func(us *UnitStaffing) (string, int) {
		return us.UnitType, us.CurrentCensus
	})
	return result, totals
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
