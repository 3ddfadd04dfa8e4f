package forecast

import (
	"time"

	"github.com/censusops/census/internal/domain/census"
	"github.com/censusops/census/internal/domain/units"
)

type unitBucket struct {
	unitType string
	patients []*census.PatientRecord
}

// Simulate projects each unit's census over horizon days. Day 0 is the
// current census, unmodified; discharge predictions remove patients on their
// projected day and ICU downgrade predictions remove them on the predicted
// date, both anchored to the import's upload date. The running census never
// goes negative. Pure; no store access.
//
// The combined variant passes the external admissions feed and folds unit
// aliases (both the patients' units and the feed's target units) into the
// two canonical labels so aliased names accumulate into one bucket; canonical
// buckets are pre-seeded so a unit referenced only by the feed still appears.
func Simulate(patients []*census.PatientRecord, anchor time.Time, horizon int, admissions []ProcedureAdmission, fold bool) []*UnitForecast {
	anchor = dateOnly(anchor)
	buckets := make(map[string]*unitBucket)
	if fold {
		buckets[units.CanonicalICU] = &unitBucket{unitType: units.TypeICU}
		buckets[units.CanonicalFloor] = &unitBucket{unitType: units.TypeFloor}
	}
	for _, p := range patients {
		key := p.CurrentUnit
		if fold {
			key = units.Canonical(key)
		}
		b, ok := buckets[key]
		if !ok {
			b = &unitBucket{unitType: p.UnitType}
			buckets[key] = b
		}
		b.patients = append(b.patients, p)
	}

	admits := spreadAdmissions(admissions, anchor, horizon, fold, buckets)

	result := make([]*UnitForecast, 0, len(buckets))
	for name, b := range buckets {
		uf := &UnitForecast{
			Unit:          name,
			UnitType:      b.unitType,
			CurrentCensus: len(b.patients),
			Days:          make([]DayForecast, 0, horizon+1),
		}
		uf.Days = append(uf.Days, DayForecast{Day: 0, Date: anchor, ProjectedCensus: uf.CurrentCensus})

		running := uf.CurrentCensus
		for d := 1; d <= horizon; d++ {
			date := anchor.AddDate(0, 0, d)
			discharges, downgrades := 0, 0
			for _, p := range b.patients {
				if p.ProjectedDischargeDays != nil && *p.ProjectedDischargeDays == d {
					discharges++
				}
				if b.unitType == units.TypeICU && p.DowngradeDate != nil && sameDay(*p.DowngradeDate, date) {
					downgrades++
				}
			}
			running -= discharges + downgrades
			if running < 0 {
				running = 0
			}
			projected := running + admits[name][d]
			uf.Days = append(uf.Days, DayForecast{
				Day:                 d,
				Date:                date,
				ProjectedCensus:     projected,
				PredictedDischarges: discharges,
				PredictedDowngrades: downgrades,
				PredictedAdmits:     admits[name][d],
				NetChange:           projected - uf.Days[d-1].ProjectedCensus,
			})
		}
		result = append(result, uf)
	}

	census.SortUnitsICUFirst(result, func(uf *UnitForecast) (string, int) {
		return uf.UnitType, uf.CurrentCensus
	})
	return result
}

// spreadAdmissions distributes each admitting feed record across its
// predicted ICU-day span and then its floor-day span, starting at the
// visit's day index relative to the anchor.
func spreadAdmissions(admissions []ProcedureAdmission, anchor time.Time, horizon int, fold bool, buckets map[string]*unitBucket) map[string]map[int]int {
	admits := make(map[string]map[int]int)
	add := func(unit, fallback, unitType string, day int) {
		if day < 1 || day > horizon {
			return
		}
		if unit == "" {
			unit = fallback
		}
		if fold {
			unit = units.Canonical(unit)
		}
		if _, ok := buckets[unit]; !ok {
			buckets[unit] = &unitBucket{unitType: unitType}
		}
		if admits[unit] == nil {
			admits[unit] = make(map[int]int)
		}
		admits[unit][day]++
	}
	for _, a := range admissions {
		if !a.WillAdmit {
			continue
		}
		visitDay := daysBetween(anchor, a.VisitDate)
		if visitDay > horizon {
			continue
		}
		for i := 0; i < a.ICUDays; i++ {
			add(a.ICUUnit, units.CanonicalICU, units.TypeICU, visitDay+i)
		}
		for i := 0; i < a.FloorDays; i++ {
			add(a.FloorUnit, units.CanonicalFloor, units.TypeFloor, visitDay+a.ICUDays+i)
		}
	}
	return admits
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
