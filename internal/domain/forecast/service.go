package forecast

import (
	"context"

	"github.com/google/uuid"

	"github.com/censusops/census/internal/domain/census"
)

type Service struct {
	census *census.Service
	feed   ProcedureFeed
}

func NewService(cs *census.Service, feed ProcedureFeed) *Service {
	return &Service{census: cs, feed: feed}
}

// Basic projects the latest import's census forward without the external
// feed. A hospital with no imports gets an empty forecast, not an error.
func (s *Service) Basic(ctx context.Context, hospitalID uuid.UUID, horizon int) ([]*UnitForecast, error) {
	imp, patients, err := s.census.LatestCensus(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if imp == nil {
		return []*UnitForecast{}, nil
	}
	return Simulate(patients, imp.UploadDate, horizon, nil, false), nil
}

// Combined merges the hospital's active census with the scheduled-procedure
// admissions feed, folding unit aliases into canonical buckets.
func (s *Service) Combined(ctx context.Context, hospitalID uuid.UUID, horizon int) ([]*UnitForecast, error) {
	imp, _, err := s.census.LatestCensus(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if imp == nil {
		return []*UnitForecast{}, nil
	}
	patients, err := s.census.ActivePatients(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	admissions, err := s.feed.Admissions(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	return Simulate(patients, imp.UploadDate, horizon, admissions, true), nil
}
