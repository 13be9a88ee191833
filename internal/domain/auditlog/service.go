package auditlog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ivprep/ivprep/internal/platform/auth"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record appends one entry attributed to the calling identity. A failed
// write is logged and swallowed; the audit trail must never fail the
// operation it describes.
func (s *Service) Record(ctx context.Context, action, entityType, entityID, details string) {
	e := &Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if id := auth.IdentityFromContext(ctx); id != nil {
		e.UserID = &id.ID
		e.Username = id.Username
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		s.log.Error().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("audit write failed")
	}
}

func (s *Service) Query(ctx context.Context, f Filter) ([]*Entry, error) {
	return s.repo.Query(ctx, f)
}

func (s *Service) Count(ctx context.Context, f Filter) (int, error) {
	return s.repo.Count(ctx, f)
}
