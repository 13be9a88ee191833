package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one row of the audit trail. UserID and Username are both
// denormalized so entries stay attributable after an account is
// deactivated or renamed.
type Entry struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     *uuid.UUID `db:"user_id" json:"user_id"`
	Username   string     `db:"username" json:"username"`
	Action     string     `db:"action" json:"action"`
	EntityType string     `db:"entity_type" json:"entity_type"`
	EntityID   string     `db:"entity_id" json:"entity_id"`
	Details    string     `db:"details" json:"details"`
	Timestamp  time.Time  `db:"timestamp" json:"timestamp"`
}

// MaxListEntries caps every audit query; the trail is browsed newest
// first, not exported wholesale.
const MaxListEntries = 500
