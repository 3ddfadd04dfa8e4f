package census

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	// GetByMRN returns the patient's record for the hospital regardless of
	// lifecycle status, or nil (no error) when none exists. At most one
	// record per (hospital, mrn) survives at a time; reactivation reuses it.
	GetByMRN(ctx context.Context, hospitalID uuid.UUID, mrn string) (*PatientRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error)
	Create(ctx context.Context, p *PatientRecord) error
	Update(ctx context.Context, p *PatientRecord) error
	ListActive(ctx context.Context, hospitalID uuid.UUID) ([]*PatientRecord, error)
	ListActiveByImport(ctx context.Context, importID uuid.UUID) ([]*PatientRecord, error)
}

type TransferRepository interface {
	Create(ctx context.Context, e *TransferEvent) error
	// DeleteDischargeEvents removes every DISCHARGED event for the patient.
	// Used when a discharge inference is reversed by a reappearing MRN.
	DeleteDischargeEvents(ctx context.Context, patientID uuid.UUID) (int64, error)
	ListByMRN(ctx context.Context, hospitalID uuid.UUID, mrn string, limit, offset int) ([]*TransferEvent, int, error)
}
