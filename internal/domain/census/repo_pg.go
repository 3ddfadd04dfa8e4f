package census

import (
	"context"
	"errors"
	"time"

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

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, hospital_id, mrn, initials, current_unit, unit_type,
	admission_date, census_date, length_of_stay, age, sex,
	one_to_one, one_to_one_devices, one_to_one_source,
	diagnosis, clinical_status, disposition_notes, pending_procedures,
	projected_discharge_days, downgrade_date, downgrade_unit,
	status, import_id, expires_at, created_at, updated_at`

func scanPatient(row pgx.Row) (*PatientRecord, error) {
	var p PatientRecord
	err := row.Scan(&p.ID, &p.HospitalID, &p.MRN, &p.Initials, &p.CurrentUnit, &p.UnitType,
		&p.AdmissionDate, &p.CensusDate, &p.LengthOfStay, &p.Age, &p.Sex,
		&p.OneToOne, &p.OneToOneDevices, &p.OneToOneSource,
		&p.Diagnosis, &p.ClinicalStatus, &p.DispositionNotes, &p.PendingProcedures,
		&p.ProjectedDischargeDays, &p.DowngradeDate, &p.DowngradeUnit,
		&p.Status, &p.ImportID, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) GetByMRN(ctx context.Context, hospitalID uuid.UUID, mrn string) (*PatientRecord, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient_record
		 WHERE hospital_id = $1 AND mrn = $2
		 ORDER BY updated_at DESC LIMIT 1`, hospitalID, mrn))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient_record WHERE id = $1`, id))
}

func (r *patientRepoPG) Create(ctx context.Context, p *PatientRecord) error {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_record (`+patientCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)`,
		p.ID, p.HospitalID, p.MRN, p.Initials, p.CurrentUnit, p.UnitType,
		p.AdmissionDate, p.CensusDate, p.LengthOfStay, p.Age, p.Sex,
		p.OneToOne, p.OneToOneDevices, p.OneToOneSource,
		p.Diagnosis, p.ClinicalStatus, p.DispositionNotes, p.PendingProcedures,
		p.ProjectedDischargeDays, p.DowngradeDate, p.DowngradeUnit,
		p.Status, p.ImportID, p.ExpiresAt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *patientRepoPG) Update(ctx context.Context, p *PatientRecord) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_record SET
			initials=$2, current_unit=$3, unit_type=$4,
			admission_date=$5, census_date=$6, length_of_stay=$7, age=$8, sex=$9,
			one_to_one=$10, one_to_one_devices=$11, one_to_one_source=$12,
			diagnosis=$13, clinical_status=$14, disposition_notes=$15, pending_procedures=$16,
			projected_discharge_days=$17, downgrade_date=$18, downgrade_unit=$19,
			status=$20, import_id=$21, expires_at=$22, updated_at=$23
		WHERE id = $1`,
		p.ID, p.Initials, p.CurrentUnit, p.UnitType,
		p.AdmissionDate, p.CensusDate, p.LengthOfStay, p.Age, p.Sex,
		p.OneToOne, p.OneToOneDevices, p.OneToOneSource,
		p.Diagnosis, p.ClinicalStatus, p.DispositionNotes, p.PendingProcedures,
		p.ProjectedDischargeDays, p.DowngradeDate, p.DowngradeUnit,
		p.Status, p.ImportID, p.ExpiresAt, p.UpdatedAt)
	return err
}

func (r *patientRepoPG) listPatients(ctx context.Context, query string, arg interface{}) ([]*PatientRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PatientRecord
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) ListActive(ctx context.Context, hospitalID uuid.UUID) ([]*PatientRecord, error) {
	return r.listPatients(ctx,
		`SELECT `+patientCols+` FROM patient_record
		 WHERE hospital_id = $1 AND status = 'active'
		 ORDER BY current_unit, mrn`, hospitalID)
}

func (r *patientRepoPG) ListActiveByImport(ctx context.Context, importID uuid.UUID) ([]*PatientRecord, error) {
	return r.listPatients(ctx,
		`SELECT `+patientCols+` FROM patient_record
		 WHERE import_id = $1 AND status = 'active'
		 ORDER BY current_unit, mrn`, importID)
}

type transferRepoPG struct{ pool *pgxpool.Pool }

func NewTransferRepoPG(pool *pgxpool.Pool) TransferRepository {
	return &transferRepoPG{pool: pool}
}

func (r *transferRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const transferCols = `id, hospital_id, patient_id, mrn, from_unit, to_unit, event_date, summary, created_at, expires_at`

func scanTransfer(row pgx.Row) (*TransferEvent, error) {
	var e TransferEvent
	err := row.Scan(&e.ID, &e.HospitalID, &e.PatientID, &e.MRN, &e.FromUnit,
		&e.ToUnit, &e.EventDate, &e.Summary, &e.CreatedAt, &e.ExpiresAt)
	return &e, err
}

func (r *transferRepoPG) Create(ctx context.Context, e *TransferEvent) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO transfer_event (`+transferCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, e.HospitalID, e.PatientID, e.MRN, e.FromUnit,
		e.ToUnit, e.EventDate, e.Summary, e.CreatedAt, e.ExpiresAt)
	return err
}

func (r *transferRepoPG) DeleteDischargeEvents(ctx context.Context, patientID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM transfer_event WHERE patient_id = $1 AND to_unit = $2`,
		patientID, DischargedSentinel)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *transferRepoPG) ListByMRN(ctx context.Context, hospitalID uuid.UUID, mrn string, limit, offset int) ([]*TransferEvent, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM transfer_event WHERE hospital_id = $1 AND mrn = $2`,
		hospitalID, mrn).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+transferCols+` FROM transfer_event
		 WHERE hospital_id = $1 AND mrn = $2
		 ORDER BY event_date DESC, created_at DESC LIMIT $3 OFFSET $4`,
		hospitalID, mrn, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TransferEvent
	for rows.Next() {
		e, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
