package census

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/censusops/census/internal/domain/imports"
	"github.com/censusops/census/internal/domain/units"
)

type mockPatientRepo struct {
	items map[uuid.UUID]*PatientRecord
	order []uuid.UUID
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{items: make(map[uuid.UUID]*PatientRecord)}
}

func (m *mockPatientRepo) GetByMRN(ctx context.Context, hospitalID uuid.UUID, mrn string) (*PatientRecord, error) {
	for _, id := range m.order {
		p := m.items[id]
		if p.HospitalID == hospitalID && p.MRN == mrn {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) Create(ctx context.Context, p *PatientRecord) error {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.items[p.ID] = p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *mockPatientRepo) Update(ctx context.Context, p *PatientRecord) error {
	if _, ok := m.items[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	p.UpdatedAt = time.Now().UTC()
	m.items[p.ID] = p
	return nil
}

func (m *mockPatientRepo) ListActive(ctx context.Context, hospitalID uuid.UUID) ([]*PatientRecord, error) {
	var out []*PatientRecord
	for _, id := range m.order {
		if p := m.items[id]; p.HospitalID == hospitalID && p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPatientRepo) ListActiveByImport(ctx context.Context, importID uuid.UUID) ([]*PatientRecord, error) {
	var out []*PatientRecord
	for _, id := range m.order {
		if p := m.items[id]; p.ImportID == importID && p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockTransferRepo struct {
	events []*TransferEvent
}

func (m *mockTransferRepo) Create(ctx context.Context, e *TransferEvent) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	m.events = append(m.events, e)
	return nil
}

func (m *mockTransferRepo) DeleteDischargeEvents(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var kept []*TransferEvent
	var deleted int64
	for _, e := range m.events {
		if e.PatientID == patientID && e.ToUnit == DischargedSentinel {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return deleted, nil
}

func (m *mockTransferRepo) ListByMRN(ctx context.Context, hospitalID uuid.UUID, mrn string, limit, offset int) ([]*TransferEvent, int, error) {
	var all []*TransferEvent
	for _, e := range m.events {
		if e.HospitalID == hospitalID && e.MRN == mrn {
			all = append(all, e)
		}
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockTransferRepo) forPatient(patientID uuid.UUID) []*TransferEvent {
	var out []*TransferEvent
	for _, e := range m.events {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out
}

type mockImportRepo struct {
	items map[uuid.UUID]*imports.Import
	order []uuid.UUID
}

func newMockImportRepo() *mockImportRepo {
	return &mockImportRepo{items: make(map[uuid.UUID]*imports.Import)}
}

func (m *mockImportRepo) Create(ctx context.Context, imp *imports.Import) error {
	imp.ID = uuid.New()
	imp.Status = imports.StatusPending
	imp.Active = true
	imp.CreatedAt = time.Now().UTC()
	m.items[imp.ID] = imp
	m.order = append(m.order, imp.ID)
	return nil
}

func (m *mockImportRepo) GetByID(ctx context.Context, id uuid.UUID) (*imports.Import, error) {
	imp, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return imp, nil
}

func (m *mockImportRepo) Complete(ctx context.Context, id uuid.UUID, processed, predictions int, rowErrors []string) error {
	imp, ok := m.items[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	imp.ProcessedCount = processed
	imp.PredictionCount = predictions
	imp.Errors = rowErrors
	imp.Status = imports.StatusCompleted
	return nil
}

func (m *mockImportRepo) LatestActive(ctx context.Context, hospitalID uuid.UUID) (*imports.Import, error) {
	for i := len(m.order) - 1; i >= 0; i-- {
		imp := m.items[m.order[i]]
		if imp.HospitalID == hospitalID && imp.Active {
			return imp, nil
		}
	}
	return nil, nil
}

func (m *mockImportRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*imports.Import, int, error) {
	var all []*imports.Import
	for i := len(m.order) - 1; i >= 0; i-- {
		if imp := m.items[m.order[i]]; imp.HospitalID == hospitalID {
			all = append(all, imp)
		}
	}
	return all, len(all), nil
}

type mockMappingRepo struct {
	items map[string]*units.Mapping
}

func newMockMappingRepo() *mockMappingRepo {
	return &mockMappingRepo{items: make(map[string]*units.Mapping)}
}

func (m *mockMappingRepo) EnsureMapping(ctx context.Context, hospitalID uuid.UUID, rawName, unitType string, isICU bool) (*units.Mapping, error) {
	key := hospitalID.String() + "/" + rawName
	if existing, ok := m.items[key]; ok {
		return existing, nil
	}
	mapping := &units.Mapping{
		ID:         uuid.New(),
		HospitalID: hospitalID,
		RawName:    rawName,
		UnitType:   unitType,
		IsICU:      isICU,
		CreatedAt:  time.Now().UTC(),
	}
	m.items[key] = mapping
	return mapping, nil
}

func (m *mockMappingRepo) GetByID(ctx context.Context, id uuid.UUID) (*units.Mapping, error) {
	for _, mp := range m.items {
		if mp.ID == id {
			return mp, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockMappingRepo) Update(ctx context.Context, mp *units.Mapping) error {
	for key, existing := range m.items {
		if existing.ID == mp.ID {
			m.items[key] = mp
			return nil
		}
	}
	return fmt.Errorf("not found")
}

func (m *mockMappingRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*units.Mapping, error) {
	var out []*units.Mapping
	for _, mp := range m.items {
		if mp.HospitalID == hospitalID {
			out = append(out, mp)
		}
	}
	return out, nil
}

// testEnv wires a Service over in-memory stores with one pending import.
type testEnv struct {
	svc        *Service
	patients   *mockPatientRepo
	transfers  *mockTransferRepo
	importRepo *mockImportRepo
	mappings   *mockMappingRepo
	hospitalID uuid.UUID
	imp        *imports.Import
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		patients:   newMockPatientRepo(),
		transfers:  &mockTransferRepo{},
		importRepo: newMockImportRepo(),
		mappings:   newMockMappingRepo(),
		hospitalID: uuid.New(),
	}
	impSvc := imports.NewService(env.importRepo)
	env.svc = NewService(env.patients, env.transfers, impSvc, units.NewService(env.mappings))
	imp, err := impSvc.CreateImport(context.Background(), env.hospitalID, "census.xlsx", time.Now().UTC())
	if err != nil {
		t.Fatalf("CreateImport: %v", err)
	}
	env.imp = imp
	return env
}

func (env *testEnv) newImport(t *testing.T, fileName string) *imports.Import {
	t.Helper()
	imp := &imports.Import{HospitalID: env.hospitalID, FileName: fileName, UploadDate: time.Now().UTC().Truncate(24 * time.Hour)}
	if err := env.importRepo.Create(context.Background(), imp); err != nil {
		t.Fatalf("Create import: %v", err)
	}
	return imp
}

func basicRow(mrn, name, unit string) Row {
	return Row{
		MRN:           mrn,
		Name:          name,
		Unit:          unit,
		AdmissionDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		CensusDate:    time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func boolPtr(v bool) *bool           { return &v }
func datePtr(v time.Time) *time.Time { return &v }
