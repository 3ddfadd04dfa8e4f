package census

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/censusops/census/internal/domain/imports"
	"github.com/censusops/census/internal/domain/units"
)

type Service struct {
	patients  PatientRepository
	transfers TransferRepository
	imports   *imports.Service
	units     *units.Service
}

func NewService(patients PatientRepository, transfers TransferRepository, imps *imports.Service, us *units.Service) *Service {
	return &Service{patients: patients, transfers: transfers, imports: imps, units: us}
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) TransferHistory(ctx context.Context, hospitalID uuid.UUID, mrn string, limit, offset int) ([]*TransferEvent, int, error) {
	return s.transfers.ListByMRN(ctx, hospitalID, mrn, limit, offset)
}

// ActivePatients returns the hospital's active census across imports.
func (s *Service) ActivePatients(ctx context.Context, hospitalID uuid.UUID) ([]*PatientRecord, error) {
	return s.patients.ListActive(ctx, hospitalID)
}

// LatestCensus returns the active patients of the hospital's latest import
// together with the import itself. Both are nil when the hospital has never
// uploaded a roster; callers render that as an empty result, not an error.
func (s *Service) LatestCensus(ctx context.Context, hospitalID uuid.UUID) (*imports.Import, []*PatientRecord, error) {
	imp, err := s.imports.LatestActive(ctx, hospitalID)
	if err != nil {
		return nil, nil, err
	}
	if imp == nil {
		return nil, nil, nil
	}
	patients, err := s.patients.ListActiveByImport(ctx, imp.ID)
	if err != nil {
		return nil, nil, err
	}
	return imp, patients, nil
}

// Summary groups the latest import's active patients by unit. ICU units sort
// first, then by patient count descending.
func (s *Service) Summary(ctx context.Context, hospitalID uuid.UUID) ([]*UnitCensus, error) {
	_, patients, err := s.LatestCensus(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	byUnit := make(map[string]*UnitCensus)
	for _, p := range patients {
		uc, ok := byUnit[p.CurrentUnit]
		if !ok {
			uc = &UnitCensus{Unit: p.CurrentUnit, UnitType: p.UnitType}
			byUnit[p.CurrentUnit] = uc
		}
		uc.Patients++
		if p.OneToOne {
			uc.OneToOne++
		}
		if p.ProjectedDischargeDays != nil && *p.ProjectedDischargeDays <= 1 {
			uc.Discharges++
		}
	}
	result := make([]*UnitCensus, 0, len(byUnit))
	for _, uc := range byUnit {
		result = append(result, uc)
	}
	SortUnitsICUFirst(result, func(uc *UnitCensus) (string, int) {
		return uc.UnitType, uc.Patients
	})
	return result, nil
}

// SortUnitsICUFirst orders unit rows ICU before floor, then by current
// patient count descending. Shared by the census summary, the staffing
// calculator, and the forecast simulator so all three report units in the
// same order.
func SortUnitsICUFirst[T any](items []T, key func(T) (unitType string, count int)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, ci := key(items[i])
		tj, cj := key(items[j])
		if ti != tj {
			return ti == units.TypeICU
		}
		return ci > cj
	})
}
