package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testIssuer(ttl time.Duration) *Issuer {
	return NewIssuer([]byte("0123456789abcdef0123456789abcdef"), ttl)
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := testIssuer(time.Hour)
	id := &Identity{
		ID:          uuid.New(),
		Username:    "sara",
		DisplayName: "Sara K",
		Role:        RolePharmacist,
		Permissions: []string{PermManagePatients},
	}

	token, err := issuer.Issue(id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.ID != id.ID || got.Username != id.Username || got.Role != id.Role {
		t.Errorf("identity mismatch: got %+v", got)
	}
	if len(got.Permissions) != 1 || got.Permissions[0] != PermManagePatients {
		t.Errorf("permissions did not round-trip: %v", got.Permissions)
	}
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer := testIssuer(-time.Minute)
	token, err := issuer.Issue(&Identity{ID: uuid.New(), Username: "x", Role: RolePharmacist})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected expired token to fail verification")
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := testIssuer(time.Hour).Issue(&Identity{ID: uuid.New(), Username: "x", Role: RolePharmacist})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := NewIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	if _, err := other.Verify(token); err == nil {
		t.Error("expected token signed with different secret to fail")
	}
}
