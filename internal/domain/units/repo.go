package units

import (
	"context"

	"github.com/google/uuid"
)

type MappingRepository interface {
	// EnsureMapping creates a mapping for (hospitalID, rawName) if none
	// exists and returns it. Existing mappings are returned untouched.
	EnsureMapping(ctx context.Context, hospitalID uuid.UUID, rawName, unitType string, isICU bool) (*Mapping, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Mapping, error)
	Update(ctx context.Context, m *Mapping) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Mapping, error)
}
