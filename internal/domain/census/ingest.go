package census

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/censusops/census/internal/domain/imports"
	"github.com/censusops/census/internal/domain/units"
)

// IngestRows upserts one roster batch against the patient store. Rows are
// processed strictly in input order; a row's failure is recorded as
// "<mrn>: <message>" and never stops the batch. The import is marked
// completed afterwards whether or not row errors occurred.
func (s *Service) IngestRows(ctx context.Context, importID uuid.UUID, rows []Row) (*IngestResult, error) {
	imp, err := s.imports.GetImport(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", importID, err)
	}

	res := &IngestResult{}
	predictions := 0
	for _, row := range rows {
		created, err := s.processRow(ctx, imp, row)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", row.MRN, err))
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		if rowHasPredictions(row) {
			predictions++
		}
	}

	if err := s.imports.Complete(ctx, imp.ID, res.Created+res.Updated, predictions, res.Errors); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) processRow(ctx context.Context, imp *imports.Import, row Row) (bool, error) {
	if row.MRN == "" {
		return false, fmt.Errorf("mrn is required")
	}
	if row.Unit == "" {
		return false, fmt.Errorf("unit name is required")
	}
	initials := deriveInitials(row.Name)
	if initials == "" {
		return false, fmt.Errorf("name is required")
	}
	unitType, _ := units.Classify(row.Unit)
	if _, err := s.units.Observe(ctx, imp.HospitalID, row.Unit); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	existing, err := s.patients.GetByMRN(ctx, imp.HospitalID, row.MRN)
	if err != nil {
		return false, err
	}

	if existing == nil {
		p := &PatientRecord{
			HospitalID: imp.HospitalID,
			MRN:        row.MRN,
			Status:     StatusActive,
			ImportID:   imp.ID,
			ExpiresAt:  now.Add(RetentionTTL),
		}
		mergeRow(p, row, initials, unitType)
		if err := s.patients.Create(ctx, p); err != nil {
			return false, err
		}
		return true, s.transfers.Create(ctx, &TransferEvent{
			HospitalID: p.HospitalID,
			PatientID:  p.ID,
			MRN:        p.MRN,
			FromUnit:   nil,
			ToUnit:     row.Unit,
			EventDate:  row.AdmissionDate,
			Summary:    row.Diagnosis,
			ExpiresAt:  now.Add(RetentionTTL),
		})
	}

	// A discharged patient reappearing means the absence inference was
	// wrong. Remove the DISCHARGED events before any new history is
	// written so the ledger never shows a dangling discharge.
	if existing.Status == StatusDischarged {
		if _, err := s.transfers.DeleteDischargeEvents(ctx, existing.ID); err != nil {
			return false, err
		}
	}

	if existing.CurrentUnit != row.Unit {
		from := existing.CurrentUnit
		if err := s.transfers.Create(ctx, &TransferEvent{
			HospitalID: existing.HospitalID,
			PatientID:  existing.ID,
			MRN:        existing.MRN,
			FromUnit:   &from,
			ToUnit:     row.Unit,
			EventDate:  imp.UploadDate,
			Summary:    row.Diagnosis,
			ExpiresAt:  now.Add(RetentionTTL),
		}); err != nil {
			return false, err
		}
	}

	mergeRow(existing, row, initials, unitType)
	existing.Status = StatusActive
	existing.ImportID = imp.ID
	existing.ExpiresAt = now.Add(RetentionTTL)
	return false, s.patients.Update(ctx, existing)
}

// mergeRow overwrites the record with the incoming row. Roster rows are
// authoritative snapshots, so every field they carry replaces the stored
// value; partial patches only happen through ApplyPredictions.
func mergeRow(p *PatientRecord, row Row, initials, unitType string) {
	p.Initials = initials
	p.CurrentUnit = row.Unit
	p.UnitType = unitType
	p.AdmissionDate = row.AdmissionDate
	p.CensusDate = row.CensusDate
	p.LengthOfStay = row.LengthOfStay
	p.Age = row.Age
	p.Sex = row.Sex
	p.OneToOne = row.OneToOne
	p.OneToOneDevices = row.OneToOneDevices
	p.OneToOneSource = row.OneToOneSource
	if row.OneToOne && p.OneToOneSource == nil {
		src := SourceKeyword
		p.OneToOneSource = &src
	}
	p.Diagnosis = row.Diagnosis
	p.ClinicalStatus = row.ClinicalStatus
	p.DispositionNotes = row.DispositionNotes
	p.PendingProcedures = row.PendingProcedures
	p.ProjectedDischargeDays = row.ProjectedDischargeDays
	p.DowngradeDate = row.DowngradeDate
	p.DowngradeUnit = row.DowngradeUnit
}

func rowHasPredictions(row Row) bool {
	return row.ProjectedDischargeDays != nil ||
		row.DowngradeDate != nil ||
		row.Diagnosis != nil ||
		row.ClinicalStatus != nil ||
		row.DispositionNotes != nil ||
		row.PendingProcedures != nil
}
