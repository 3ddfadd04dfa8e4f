package units

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	mappings MappingRepository
}

func NewService(mappings MappingRepository) *Service {
	return &Service{mappings: mappings}
}

// Observe classifies a raw unit name and lazily records the mapping for the
// hospital. Called by ingestion for every row; the first observation of a
// name creates the row, later ones are no-ops.
func (s *Service) Observe(ctx context.Context, hospitalID uuid.UUID, rawName string) (*Mapping, error) {
	if rawName == "" {
		return nil, fmt.Errorf("unit name is required")
	}
	unitType, isICU := Classify(rawName)
	return s.mappings.EnsureMapping(ctx, hospitalID, rawName, unitType, isICU)
}

func (s *Service) GetMapping(ctx context.Context, id uuid.UUID) (*Mapping, error) {
	return s.mappings.GetByID(ctx, id)
}

func (s *Service) UpdateMapping(ctx context.Context, m *Mapping) error {
	if m.UnitType != TypeICU && m.UnitType != TypeFloor {
		return fmt.Errorf("invalid unit type: %s", m.UnitType)
	}
	return s.mappings.Update(ctx, m)
}

func (s *Service) ListMappings(ctx context.Context, hospitalID uuid.UUID) ([]*Mapping, error) {
	return s.mappings.ListByHospital(ctx, hospitalID)
}
