package census

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// dischargeSummary annotates discharge events inferred from roster absence.
const dischargeSummary = "assumed discharged or transferred off service"

// ReconcileDischarges marks every active patient of the import's hospital
// whose MRN is absent from currentMRNs as discharged. The inference is
// reversible: a reappearing MRN reactivates the record on the next ingest.
// Callers invoke this explicitly after a batch completes; it is not chained
// to ingestion. Already-discharged patients are inactive and skipped, so an
// immediate re-run with the same set discharges nobody.
func (s *Service) ReconcileDischarges(ctx context.Context, importID uuid.UUID, currentMRNs []string) (*ReconcileResult, error) {
	imp, err := s.imports.GetImport(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", importID, err)
	}

	present := make(map[string]struct{}, len(currentMRNs))
	for _, mrn := range currentMRNs {
		present[mrn] = struct{}{}
	}

	active, err := s.patients.ListActive(ctx, imp.HospitalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res := &ReconcileResult{}
	for _, p := range active {
		if _, ok := present[p.MRN]; ok {
			continue
		}
		p.Status = StatusDischarged
		if err := s.patients.Update(ctx, p); err != nil {
			return nil, err
		}
		from := p.CurrentUnit
		summary := dischargeSummary
		if err := s.transfers.Create(ctx, &TransferEvent{
			HospitalID: p.HospitalID,
			PatientID:  p.ID,
			MRN:        p.MRN,
			FromUnit:   &from,
			ToUnit:     DischargedSentinel,
			EventDate:  imp.UploadDate,
			Summary:    &summary,
			ExpiresAt:  now.Add(RetentionTTL),
		}); err != nil {
			return nil, err
		}
		res.Discharged++
	}
	return res, nil
}
