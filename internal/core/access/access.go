// Package access holds the capability checks gating operations on owned
// resources.
package access

import "github.com/rentport/accounts-api/internal/core/domain"

// Identity is the authenticated actor resolved from the access token.
type Identity struct {
	UserID   string
	Username string
	Role     domain.Role
}

// Authenticated reports whether the identity was actually resolved.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Policy decides whether an actor may act on a user-owned resource.
type Policy interface {
	CanActOn(actor Identity, ownerID string) bool
}

// SelfOnly permits an operation only when the actor owns the target
// resource. New policies (for example an admin override) can be added as
// further Policy implementations without touching callers.
type SelfOnly struct{}

func (SelfOnly) CanActOn(actor Identity, ownerID string) bool {
	return actor.Authenticated() && actor.UserID == ownerID
}
