package preparation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// PayloadSchemaVersion is the worksheet payload format this build reads
// and writes. Unknown versions are rejected at read time rather than
// silently misinterpreted.
const PayloadSchemaVersion = 1

// WorksheetPayload captures everything the pharmacist saw when the
// worksheet was saved: the drug snapshot, the entered dose and the derived
// numbers. The snapshot keeps historical worksheets readable after the
// catalog entry changes.
type WorksheetPayload struct {
	SchemaVersion  int             `json:"schema_version"`
	Drug           json.RawMessage `json:"drug"`
	Dose           float64         `json:"dose"`
	DoseUnit       string          `json:"dose_unit"`
	Interval       string          `json:"interval"`
	CalculatedDose *float64        `json:"calculated_dose,omitempty"`
	BSA            *float64        `json:"bsa,omitempty"`
	BMI            *float64        `json:"bmi,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
}

type Preparation struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	PatientID uuid.UUID        `db:"patient_id" json:"patient_id"`
	Date      string           `db:"date" json:"date"`
	DrugID    *uuid.UUID       `db:"drug_id" json:"drug_id"`
	DrugName  string           `db:"drug_name" json:"drug_name"`
	Payload   WorksheetPayload `db:"data_json" json:"payload"`
	Status    string           `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

func encodePayload(p WorksheetPayload) (string, error) {
	p.SchemaVersion = PayloadSchemaVersion
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(b), nil
}

func decodePayload(s string) (WorksheetPayload, error) {
	var p WorksheetPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return p, fmt.Errorf("decode payload: %w", err)
	}
	if p.SchemaVersion != PayloadSchemaVersion {
		return p, fmt.Errorf("unsupported payload schema version %d", p.SchemaVersion)
	}
	return p, nil
}
