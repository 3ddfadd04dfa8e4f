package census

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApplyPredictions merges AI-derived fields into a patient record. Only
// fields present in the patch overwrite stored values. When the patch
// asserts one-to-one nursing, the stored source decides the merged source:
// "keyword" becomes "both", no source becomes "ai", anything else is kept.
func (s *Service) ApplyPredictions(ctx context.Context, patientID uuid.UUID, patch *PredictionPatch) (*PatientRecord, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if patch.Diagnosis != nil {
		p.Diagnosis = patch.Diagnosis
	}
	if patch.ClinicalStatus != nil {
		p.ClinicalStatus = patch.ClinicalStatus
	}
	if patch.DispositionNotes != nil {
		p.DispositionNotes = patch.DispositionNotes
	}
	if patch.PendingProcedures != nil {
		p.PendingProcedures = patch.PendingProcedures
	}
	if patch.ProjectedDischargeDays != nil {
		p.ProjectedDischargeDays = patch.ProjectedDischargeDays
	}
	if patch.DowngradeDate != nil {
		p.DowngradeDate = patch.DowngradeDate
	}
	if patch.DowngradeUnit != nil {
		p.DowngradeUnit = patch.DowngradeUnit
	}
	if patch.OneToOneDevices != nil {
		p.OneToOneDevices = patch.OneToOneDevices
	}
	if patch.OneToOne != nil {
		if *patch.OneToOne {
			switch {
			case p.OneToOneSource != nil && *p.OneToOneSource == SourceKeyword:
				src := SourceBoth
				p.OneToOneSource = &src
			case p.OneToOneSource == nil || *p.OneToOneSource == "":
				src := SourceAI
				p.OneToOneSource = &src
			}
		}
		p.OneToOne = *patch.OneToOne
	}

	p.ExpiresAt = time.Now().UTC().Add(RetentionTTL)
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
