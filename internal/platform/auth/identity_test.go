package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestCan_NilIdentity(t *testing.T) {
	for _, perm := range AllPermissions {
		if Can(nil, perm) {
			t.Errorf("nil identity should not have %s", perm)
		}
	}
}

func TestCan_AdminBypassesPermissionSet(t *testing.T) {
	// Admins are unrestricted even with an empty or stale permission set.
	admin := &Identity{ID: uuid.New(), Username: "admin", Role: RoleAdmin, Permissions: nil}
	for _, perm := range AllPermissions {
		if !Can(admin, perm) {
			t.Errorf("admin should have %s regardless of stored permissions", perm)
		}
	}
}

func TestCan_PharmacistUsesPermissionSet(t *testing.T) {
	ph := &Identity{
		ID:          uuid.New(),
		Username:    "sara",
		Role:        RolePharmacist,
		Permissions: []string{PermManagePatients, PermManagePreparations},
	}

	tests := []struct {
		perm string
		want bool
	}{
		{PermManagePatients, true},
		{PermManagePreparations, true},
		{PermManageDrugs, false},
		{PermManageUsers, false},
		{PermViewAuditLogs, false},
	}
	for _, tt := range tests {
		if got := Can(ph, tt.perm); got != tt.want {
			t.Errorf("Can(%s) = %v, want %v", tt.perm, got, tt.want)
		}
	}
}

func TestCan_UnrecognizedPermission(t *testing.T) {
	admin := &Identity{ID: uuid.New(), Role: RoleAdmin}
	ph := &Identity{ID: uuid.New(), Role: RolePharmacist, Permissions: []string{"manage_everything"}}

	if Can(admin, "manage_everything") {
		t.Error("unrecognized permission should be false even for admin")
	}
	if Can(ph, "manage_everything") {
		t.Error("unrecognized permission should be false even when present in the stored set")
	}
}
