package units

import (
	"time"

	"github.com/google/uuid"
)

// Mapping maps to the unit_mapping table. One row per raw unit name observed
// for a hospital, created lazily by ingestion and editable by operators.
type Mapping struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	HospitalID uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	RawName    string     `db:"raw_name" json:"raw_name"`
	UnitType   string     `db:"unit_type" json:"unit_type"`
	IsICU      bool       `db:"is_icu" json:"is_icu"`
	UnitID     *uuid.UUID `db:"unit_id" json:"unit_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
