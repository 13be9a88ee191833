package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is one day's worklist entry for a person. The same human gets a
// fresh row for every entry date, so EntryDate is part of identity as far
// as the daily list is concerned.
type Patient struct {
	ID         uuid.UUID `db:"id" json:"id"`
	HospitalID string    `db:"hospital_id" json:"hospital_id"`
	Name       string    `db:"name" json:"name"`
	DOB        string    `db:"dob" json:"dob"`
	Gender     string    `db:"gender" json:"gender"`
	WeightKg   *float64  `db:"weight" json:"weight"`
	HeightCm   *float64  `db:"height" json:"height"`
	Department string    `db:"department" json:"department"`
	Notes      string    `db:"notes" json:"notes"`
	EntryDate  string    `db:"entry_date" json:"entry_date"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DateLayout is the storage format of DOB and EntryDate.
const DateLayout = "2006-01-02"
