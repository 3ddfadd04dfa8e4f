package imports

import (
	"time"

	"github.com/google/uuid"
)

// Import statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Import maps to the import table. One row per roster upload for a hospital.
// The "latest import" for a hospital is always the newest created row with
// active=true, resolved by query each time; it is never cached.
type Import struct {
	ID              uuid.UUID `db:"id" json:"id"`
	HospitalID      uuid.UUID `db:"hospital_id" json:"hospital_id"`
	FileName        string    `db:"file_name" json:"file_name"`
	UploadDate      time.Time `db:"upload_date" json:"upload_date"`
	ProcessedCount  int       `db:"processed_count" json:"processed_count"`
	PredictionCount int       `db:"prediction_count" json:"prediction_count"`
	Status          string    `db:"status" json:"status"`
	Errors          []string  `db:"errors" json:"errors,omitempty"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
