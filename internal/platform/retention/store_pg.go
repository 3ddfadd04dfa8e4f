package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type storePG struct{ pool *pgxpool.Pool }

func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

func (s *storePG) SystemSchemas(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT schema_name FROM information_schema.schemata
		WHERE schema_name LIKE 'system_%' ORDER BY schema_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}

func (s *storePG) PurgeExpired(ctx context.Context, schema string, now time.Time) (int64, int64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer conn.Release()
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schema)); err != nil {
		return 0, 0, err
	}

	tTag, err := conn.Exec(ctx, `DELETE FROM transfer_event WHERE expires_at < $1`, now)
	if err != nil {
		return 0, 0, err
	}
	pTag, err := conn.Exec(ctx, `DELETE FROM patient_record WHERE expires_at < $1`, now)
	if err != nil {
		return 0, tTag.RowsAffected(), err
	}
	return pTag.RowsAffected(), tTag.RowsAffected(), nil
}

func (s *storePG) DeactivateStaleImports(ctx context.Context, schema string, cutoff time.Time) (int64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schema)); err != nil {
		return 0, err
	}

	tag, err := conn.Exec(ctx, `
		UPDATE import SET active = false
		WHERE active = true
		  AND created_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM patient_record p
			WHERE p.import_id = import.id AND p.status = 'active'
		  )`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
