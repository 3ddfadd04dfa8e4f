package staffing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/censusops/census/internal/domain/census"
)

// Report is the staffing prediction for one hospital's latest import.
type Report struct {
	ImportID   *uuid.UUID      `json:"import_id,omitempty"`
	UploadDate *time.Time      `json:"upload_date,omitempty"`
	Units      []*UnitStaffing `json:"units"`
	Totals     Totals          `json:"totals"`
}

type Service struct {
	census *census.Service
}

func NewService(cs *census.Service) *Service {
	return &Service{census: cs}
}

// Predict computes staffing needs from the latest import's active census.
// A hospital with no imports gets an empty report, not an error.
func (s *Service) Predict(ctx context.Context, hospitalID uuid.UUID) (*Report, error) {
	imp, patients, err := s.census.LatestCensus(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if imp == nil {
		return &Report{Units: []*UnitStaffing{}}, nil
	}
	unitsOut, totals := Compute(patients, imp.UploadDate)
	return &Report{
		ImportID:   &imp.ID,
		UploadDate: &imp.UploadDate,
		Units:      unitsOut,
		Totals:     totals,
	}, nil
}
