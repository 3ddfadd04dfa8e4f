package imports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/censusops/census/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const importCols = `id, hospital_id, file_name, upload_date, processed_count, prediction_count, status, errors, active, created_at`

func (r *repoPG) scanImport(row pgx.Row) (*Import, error) {
	var imp Import
	err := row.Scan(&imp.ID, &imp.HospitalID, &imp.FileName, &imp.UploadDate,
		&imp.ProcessedCount, &imp.PredictionCount, &imp.Status, &imp.Errors,
		&imp.Active, &imp.CreatedAt)
	return &imp, err
}

func (r *repoPG) Create(ctx context.Context, imp *Import) error {
	imp.ID = uuid.New()
	imp.Status = StatusPending
	imp.Active = true
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO import (id, hospital_id, file_name, upload_date, status, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		imp.ID, imp.HospitalID, imp.FileName, imp.UploadDate, imp.Status, imp.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Import, error) {
	return r.scanImport(r.conn(ctx).QueryRow(ctx,
		`SELECT `+importCols+` FROM import WHERE id = $1`, id))
}

func (r *repoPG) Complete(ctx context.Context, id uuid.UUID, processed, predictions int, rowErrors []string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE import SET processed_count=$2, prediction_count=$3, errors=$4, status=$5
		WHERE id = $1`,
		id, processed, predictions, rowErrors, StatusCompleted)
	return err
}

func (r *repoPG) LatestActive(ctx context.Context, hospitalID uuid.UUID) (*Import, error) {
	imp, err := r.scanImport(r.conn(ctx).QueryRow(ctx,
		`SELECT `+importCols+` FROM import
		 WHERE hospital_id = $1 AND active = true
		 ORDER BY created_at DESC LIMIT 1`, hospitalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return imp, nil
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Import, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM import WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+importCols+` FROM import WHERE hospital_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Import
	for rows.Next() {
		imp, err := r.scanImport(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, imp)
	}
	return items, total, rows.Err()
}
