package units

import (
	"context"

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

type mappingRepoPG struct{ pool *pgxpool.Pool }

func NewMappingRepoPG(pool *pgxpool.Pool) MappingRepository {
	return &mappingRepoPG{pool: pool}
}

func (r *mappingRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const mappingCols = `id, hospital_id, raw_name, unit_type, is_icu, unit_id, created_at`

func (r *mappingRepoPG) scanMapping(row pgx.Row) (*Mapping, error) {
	var m Mapping
	err := row.Scan(&m.ID, &m.HospitalID, &m.RawName, &m.UnitType, &m.IsICU, &m.UnitID, &m.CreatedAt)
	return &m, err
}

func (r *mappingRepoPG) EnsureMapping(ctx context.Context, hospitalID uuid.UUID, rawName, unitType string, isICU bool) (*Mapping, error) {
	// ON CONFLICT DO NOTHING keeps the first observation; operators may have
	// edited the row since, so a re-observed name never overwrites it.
	id := uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO unit_mapping (id, hospital_id, raw_name, unit_type, is_icu)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (hospital_id, raw_name) DO NOTHING`,
		id, hospitalID, rawName, unitType, isICU)
	if err != nil {
		return nil, err
	}
	return r.scanMapping(r.conn(ctx).QueryRow(ctx,
		`SELECT `+mappingCols+` FROM unit_mapping WHERE hospital_id = $1 AND raw_name = $2`,
		hospitalID, rawName))
}

func (r *mappingRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Mapping, error) {
	return r.scanMapping(r.conn(ctx).QueryRow(ctx,
		`SELECT `+mappingCols+` FROM unit_mapping WHERE id = $1`, id))
}

func (r *mappingRepoPG) Update(ctx context.Context, m *Mapping) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE unit_mapping SET unit_type=$2, is_icu=$3, unit_id=$4
		WHERE id = $1`,
		m.ID, m.UnitType, m.IsICU, m.UnitID)
	return err
}

func (r *mappingRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Mapping, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+mappingCols+` FROM unit_mapping WHERE hospital_id = $1 ORDER BY raw_name`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Mapping
	for rows.Next() {
		m, err := r.scanMapping(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
