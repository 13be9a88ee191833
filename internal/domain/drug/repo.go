package drug

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Drug) error
	GetByID(ctx context.Context, id uuid.UUID) (*Drug, error)
	// List returns the catalog ordered by trade name; a non-empty search
	// term matches any of the three name fields, case-insensitively.
	List(ctx context.Context, search string) ([]*Drug, error)
	Update(ctx context.Context, d *Drug) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
