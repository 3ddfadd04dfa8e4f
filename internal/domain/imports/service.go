package imports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateImport(ctx context.Context, hospitalID uuid.UUID, fileName string, uploadDate time.Time) (*Import, error) {
	if hospitalID == uuid.Nil {
		return nil, fmt.Errorf("hospital_id is required")
	}
	if fileName == "" {
		return nil, fmt.Errorf("file_name is required")
	}
	if uploadDate.IsZero() {
		uploadDate = time.Now().UTC()
	}
	imp := &Import{
		HospitalID: hospitalID,
		FileName:   fileName,
		UploadDate: uploadDate.Truncate(24 * time.Hour),
	}
	if err := s.repo.Create(ctx, imp); err != nil {
		return nil, err
	}
	return imp, nil
}

func (s *Service) GetImport(ctx context.Context, id uuid.UUID) (*Import, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID, processed, predictions int, rowErrors []string) error {
	return s.repo.Complete(ctx, id, processed, predictions, rowErrors)
}

// LatestActive resolves the latest active import for a hospital. Returns
// nil with no error when the hospital has never uploaded a roster.
func (s *Service) LatestActive(ctx context.Context, hospitalID uuid.UUID) (*Import, error) {
	return s.repo.LatestActive(ctx, hospitalID)
}

func (s *Service) ListImports(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Import, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}
