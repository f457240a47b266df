package access

import (
	"testing"

	"github.com/rentport/accounts-api/internal/core/domain"
)

func TestSelfOnly_AllowsOwner(t *testing.T) {
	actor := Identity{UserID: "u1", Username: "alice", Role: domain.RoleTenant}

	if !(SelfOnly{}).CanActOn(actor, "u1") {
		t.Fatalf("owner must be allowed to act on own resource")
	}
}

func TestSelfOnly_DeniesOtherUser(t *testing.T) {
	actor := Identity{UserID: "u1", Username: "alice", Role: domain.RoleTenant}

	if (SelfOnly{}).CanActOn(actor, "u2") {
		t.Fatalf("actor must not act on another user's resource")
	}
}

func TestSelfOnly_DeniesUnauthenticated(t *testing.T) {
	if (SelfOnly{}).CanActOn(Identity{}, "") {
		t.Fatalf("unauthenticated actor must be denied even when IDs match")
	}
}

func TestSelfOnly_AdminGetsNoOverride(t *testing.T) {
	actor := Identity{UserID: "u1", Username: "root", Role: domain.RoleAdmin}

	if (SelfOnly{}).CanActOn(actor, "u2") {
		t.Fatalf("ADMIN role must not bypass the self-only rule")
	}
}
