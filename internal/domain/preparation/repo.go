package preparation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Preparation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Preparation, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Preparation, error)
	Update(ctx context.Context, p *Preparation) error
	// DeleteByPatient removes every preparation of one patient. It backs
	// the patient-delete cascade and is the only deletion path.
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
