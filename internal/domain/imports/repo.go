package imports

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, imp *Import) error
	GetByID(ctx context.Context, id uuid.UUID) (*Import, error)
	// Complete records the final counts, row errors, and completed status.
	Complete(ctx context.Context, id uuid.UUID, processed, predictions int, rowErrors []string) error
	// LatestActive returns the most recently created active import for the
	// hospital, or nil (no error) when the hospital has none.
	LatestActive(ctx context.Context, hospitalID uuid.UUID) (*Import, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Import, int, error)
}
