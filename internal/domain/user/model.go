package user

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BootstrapUsername is the admin account created on first run. It always
// exists, always holds the full permission set, and cannot be deactivated
// or demoted.
const BootstrapUsername = "admin"

// User maps to the users table. The credential hash never leaves the server.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	Role         string    `db:"role" json:"role"`
	Permissions  []string  `db:"permissions" json:"permissions"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// encodePermissions serializes the permission set to its stored JSON form.
func encodePermissions(perms []string) string {
	if perms == nil {
		perms = []string{}
	}
	b, _ := json.Marshal(perms)
	return string(b)
}

// decodePermissions parses the stored form, tolerating empty and legacy
// null values.
func decodePermissions(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil || perms == nil {
		return []string{}
	}
	return perms
}
