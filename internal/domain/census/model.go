package census

import (
	"time"

	"github.com/google/uuid"
)

// Patient lifecycle statuses. A purged patient has no row at all; discharged
// records are retained (and queryable) until their expiry passes and the
// retention sweeper removes them.
const (
	StatusActive     = "active"
	StatusDischarged = "discharged"
)

// DischargedSentinel is the to_unit value of a discharge transfer event.
const DischargedSentinel = "DISCHARGED"

// One-to-one nursing flag sources.
const (
	SourceKeyword = "keyword"
	SourceAI      = "ai"
	SourceBoth    = "both"
)

// RetentionTTL is how long patient records and transfer events live past
// their last write before the retention sweeper may purge them.
const RetentionTTL = 72 * time.Hour

// PatientRecord maps to the patient_record table. Unique per (hospital, mrn)
// while active; reactivation reuses the same row rather than creating a
// duplicate.
type PatientRecord struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	HospitalID             uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	MRN                    string     `db:"mrn" json:"mrn"`
	Initials               string     `db:"initials" json:"initials"`
	CurrentUnit            string     `db:"current_unit" json:"current_unit"`
	UnitType               string     `db:"unit_type" json:"unit_type"`
	AdmissionDate          time.Time  `db:"admission_date" json:"admission_date"`
	CensusDate             time.Time  `db:"census_date" json:"census_date"`
	LengthOfStay           *int       `db:"length_of_stay" json:"length_of_stay,omitempty"`
	Age                    *int       `db:"age" json:"age,omitempty"`
	Sex                    *string    `db:"sex" json:"sex,omitempty"`
	OneToOne               bool       `db:"one_to_one" json:"one_to_one"`
	OneToOneDevices        []string   `db:"one_to_one_devices" json:"one_to_one_devices,omitempty"`
	OneToOneSource         *string    `db:"one_to_one_source" json:"one_to_one_source,omitempty"`
	Diagnosis              *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	ClinicalStatus         *string    `db:"clinical_status" json:"clinical_status,omitempty"`
	DispositionNotes       *string    `db:"disposition_notes" json:"disposition_notes,omitempty"`
	PendingProcedures      *string    `db:"pending_procedures" json:"pending_procedures,omitempty"`
	ProjectedDischargeDays *int       `db:"projected_discharge_days" json:"projected_discharge_days,omitempty"`
	DowngradeDate          *time.Time `db:"downgrade_date" json:"downgrade_date,omitempty"`
	DowngradeUnit          *string    `db:"downgrade_unit" json:"downgrade_unit,omitempty"`
	Status                 string     `db:"status" json:"status"`
	ImportID               uuid.UUID  `db:"import_id" json:"import_id"`
	ExpiresAt              time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// TransferEvent maps to the transfer_event table. Append-only, except that
// reactivating a falsely-discharged patient deletes that patient's
// DISCHARGED rows so the ledger of a still-admitted patient never shows a
// dangling discharge.
type TransferEvent struct {
	ID         uuid.UUID `db:"id" json:"id"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	MRN        string    `db:"mrn" json:"mrn"`
	FromUnit   *string   `db:"from_unit" json:"from_unit,omitempty"` // nil only for initial admission
	ToUnit     string    `db:"to_unit" json:"to_unit"`
	EventDate  time.Time `db:"event_date" json:"event_date"`
	Summary    *string   `db:"summary" json:"summary,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	ExpiresAt  time.Time `db:"expires_at" json:"expires_at"`
}

// Row is one patient line from an uploaded roster.
type Row struct {
	MRN                    string     `json:"mrn"`
	Name                   string     `json:"name"`
	Unit                   string     `json:"unit"`
	AdmissionDate          time.Time  `json:"admission_date"`
	CensusDate             time.Time  `json:"census_date"`
	LengthOfStay           *int       `json:"length_of_stay,omitempty"`
	Age                    *int       `json:"age,omitempty"`
	Sex                    *string    `json:"sex,omitempty"`
	OneToOne               bool       `json:"one_to_one"`
	OneToOneDevices        []string   `json:"one_to_one_devices,omitempty"`
	OneToOneSource         *string    `json:"one_to_one_source,omitempty"`
	Diagnosis              *string    `json:"diagnosis,omitempty"`
	ClinicalStatus         *string    `json:"clinical_status,omitempty"`
	DispositionNotes       *string    `json:"disposition_notes,omitempty"`
	PendingProcedures      *string    `json:"pending_procedures,omitempty"`
	ProjectedDischargeDays *int       `json:"projected_discharge_days,omitempty"`
	DowngradeDate          *time.Time `json:"downgrade_date,omitempty"`
	DowngradeUnit          *string    `json:"downgrade_unit,omitempty"`
}

// IngestResult reports the outcome of one ingestion batch. Row errors ride
// alongside the counts; they never abort the batch.
type IngestResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// ReconcileResult reports how many active patients were inferred discharged.
type ReconcileResult struct {
	Discharged int `json:"discharged"`
}

// PredictionPatch carries AI-derived fields to merge into a patient record.
// Pointer fields distinguish "absent" (nil, leave stored value alone) from
// an explicit new value, including explicit empty strings.
type PredictionPatch struct {
	Diagnosis              *string    `json:"diagnosis,omitempty"`
	ClinicalStatus         *string    `json:"clinical_status,omitempty"`
	DispositionNotes       *string    `json:"disposition_notes,omitempty"`
	PendingProcedures      *string    `json:"pending_procedures,omitempty"`
	ProjectedDischargeDays *int       `json:"projected_discharge_days,omitempty"`
	DowngradeDate          *time.Time `json:"downgrade_date,omitempty"`
	DowngradeUnit          *string    `json:"downgrade_unit,omitempty"`
	OneToOne               *bool      `json:"one_to_one,omitempty"`
	OneToOneDevices        []string   `json:"one_to_one_devices,omitempty"`
}

// UnitCensus is one unit's line in the census summary.
type UnitCensus struct {
	Unit       string `json:"unit"`
	UnitType   string `json:"unit_type"`
	Patients   int    `json:"patients"`
	OneToOne   int    `json:"one_to_one"`
	Discharges int    `json:"predicted_discharges"`
}
