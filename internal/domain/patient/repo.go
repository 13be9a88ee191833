package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// ListByEntryDate returns the worklist for one day, newest first.
	ListByEntryDate(ctx context.Context, entryDate string) ([]*Patient, error)
	ListAll(ctx context.Context) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
