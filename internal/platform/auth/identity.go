package auth

import (
	"context"

	"github.com/google/uuid"
)

// Roles.
const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
)

// Permission identifiers. Anything outside this set evaluates false for
// every caller.
const (
	PermManagePatients     = "manage_patients"
	PermManageDrugs        = "manage_drugs"
	PermManagePreparations = "manage_preparations"
	PermManageUsers        = "manage_users"
	PermViewAuditLogs      = "view_audit_logs"
)

// AllPermissions is the full permission set, granted to the bootstrap admin.
var AllPermissions = []string{
	PermManagePatients,
	PermManageDrugs,
	PermManagePreparations,
	PermManageUsers,
	PermViewAuditLogs,
}

var recognizedPermissions = map[string]bool{
	PermManagePatients:     true,
	PermManageDrugs:        true,
	PermManagePreparations: true,
	PermManageUsers:        true,
	PermViewAuditLogs:      true,
}

// Identity is the authenticated caller, as resolved at login and carried on
// every subsequent request.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// Can reports whether the caller may perform the action gated by perm.
// A nil identity can do nothing. Admins are never restricted by their stored
// permission set, which may be empty or stale. Unrecognized permission
// identifiers are false for everyone, admins included.
func Can(id *Identity, perm string) bool {
	if id == nil {
		return false
	}
	if !recognizedPermissions[perm] {
		return false
	}
	if id.Role == RoleAdmin {
		return true
	}
	for _, p := range id.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

type identityKey struct{}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the authenticated identity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
