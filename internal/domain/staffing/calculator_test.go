package staffing

import (
	"testing"
	"time"

	"github.com/censusops/census/internal/domain/census"
	"github.com/censusops/census/internal/domain/units"
)

func icuPatients(n, oneToOne int) []*census.PatientRecord {
	out := make([]*census.PatientRecord, n)
	for i := range out {
		out[i] = &census.PatientRecord{
			CurrentUnit: "ICU 1",
			UnitType:    units.TypeICU,
			OneToOne:    i < oneToOne,
			Status:      census.StatusActive,
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestComputeICUWorkedExample(t *testing.T) {
	// 10 ICU patients, 2 one-to-one, no discharges or downgrades.
	patients := icuPatients(10, 2)
	uploadDate := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	unitsOut, totals := Compute(patients, uploadDate)
	if len(unitsOut) != 1 {
		t.Fatalf("units = %d, want 1", len(unitsOut))
	}
	us := unitsOut[0]
	if us.AmEndCensus != 10 {
		t.Errorf("amEndCensus = %d, want 10", us.AmEndCensus)
	}
	if us.AmRnNeeded != 4 {
		t.Errorf("amRnNeeded = %d, want 4 (ceil(8/2))", us.AmRnNeeded)
	}
	if us.TotalAmRn != 6 {
		t.Errorf("totalAmRn = %d, want 6", us.TotalAmRn)
	}
	if totals.TotalAmRn != 6 || totals.CurrentCensus != 10 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestComputeDischargesAndDowngrades(t *testing.T) {
	uploadDate := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	patients := icuPatients(6, 0)
	patients[0].ProjectedDischargeDays = intPtr(1) // AM discharge, also counts as downgrade (≤2)
	patients[1].ProjectedDischargeDays = intPtr(2) // PM discharge, also AM downgrade
	patients[2].DowngradeDate = &uploadDate        // AM downgrade

	unitsOut, _ := Compute(patients, uploadDate)
	us := unitsOut[0]
	if us.AmDischarges != 1 {
		t.Errorf("amDischarges = %d, want 1", us.AmDischarges)
	}
	if us.PmDischarges != 1 {
		t.Errorf("pmDischarges = %d, want 1", us.PmDischarges)
	}
	if us.AmDowngrades != 3 {
		t.Errorf("amDowngrades = %d, want 3", us.AmDowngrades)
	}
	// amEnd = 6 - 1 - 3 = 2; pmEnd = 6 - 1 - 1 - 3 = 1.
	if us.AmEndCensus != 2 || us.PmEndCensus != 1 {
		t.Errorf("end census = (%d, %d), want (2, 1)", us.AmEndCensus, us.PmEndCensus)
	}
	if us.AmRnNeeded != 1 || us.PmRnNeeded != 1 {
		t.Errorf("rn needed = (%d, %d), want (1, 1)", us.AmRnNeeded, us.PmRnNeeded)
	}
}

func TestComputeFloorRatioAndNoICUDowngrades(t *testing.T) {
	uploadDate := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	var patients []*census.PatientRecord
	for i := 0; i < 11; i++ {
		patients = append(patients, &census.PatientRecord{
			CurrentUnit: "4 West",
			UnitType:    units.TypeFloor,
			Status:      census.StatusActive,
		})
	}
	// Downgrade predictions never apply to floor units.
	patients[0].DowngradeDate = &uploadDate
	patients[1].ProjectedDischargeDays = intPtr(2)

	unitsOut, _ := Compute(patients, uploadDate)
	us := unitsOut[0]
	if us.AmDowngrades != 0 {
		t.Errorf("floor amDowngrades = %d, want 0", us.AmDowngrades)
	}
	// amEnd = 11, ceil(11/5) = 3.
	if us.AmRnNeeded != 3 {
		t.Errorf("amRnNeeded = %d, want 3", us.AmRnNeeded)
	}
	// pmEnd = 11 - 0 - 1 - 0 = 10, ceil(10/5) = 2.
	if us.PmRnNeeded != 2 {
		t.Errorf("pmRnNeeded = %d, want 2", us.PmRnNeeded)
	}
}

func TestComputeCensusNeverNegative(t *testing.T) {
	uploadDate := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	patients := icuPatients(2, 0)
	patients[0].ProjectedDischargeDays = intPtr(1)
	patients[1].ProjectedDischargeDays = intPtr(1)

	unitsOut, _ := Compute(patients, uploadDate)
	us := unitsOut[0]
	// 2 discharges also count as 2 ICU downgrades; raw end census would be
	// negative without the clamp.
	if us.AmEndCensus != 0 || us.PmEndCensus != 0 {
		t.Errorf("end census = (%d, %d), want clamped to 0", us.AmEndCensus, us.PmEndCensus)
	}
	if us.TotalAmRn != 0 {
		t.Errorf("totalAmRn = %d, want 0", us.TotalAmRn)
	}
}

func TestComputeOrdersICUFirstThenCensusDesc(t *testing.T) {
	uploadDate := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	var patients []*census.PatientRecord
	add := func(unit, unitType string, n int) {
		for i := 0; i < n; i++ {
			patients = append(patients, &census.PatientRecord{CurrentUnit: unit, UnitType: unitType, Status: census.StatusActive})
		}
	}
	add("4 West", units.TypeFloor, 12)
	add("ICU 1", units.TypeICU, 3)
	add("ICU 2", units.TypeICU, 7)
	add("4 East", units.TypeFloor, 5)

	unitsOut, _ := Compute(patients, uploadDate)
	got := []string{unitsOut[0].Unit, unitsOut[1].Unit, unitsOut[2].Unit, unitsOut[3].Unit}
	want := []string{"ICU 2", "ICU 1", "4 West", "4 East"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
