package auditlog

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a trail query. Zero values mean "no constraint".
type Filter struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	From       string // inclusive, YYYY-MM-DD
	To         string // inclusive, YYYY-MM-DD
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	// Query returns matching entries newest first, capped at
	// MaxListEntries regardless of Filter.Limit.
	Query(ctx context.Context, f Filter) ([]*Entry, error)
	Count(ctx context.Context, f Filter) (int, error)
}
