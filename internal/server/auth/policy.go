package auth

import (
	"strings"

	"authcore/internal/common"
	"authcore/internal/server/models"
)

// Authorization policy: pure functions over a resolved identity, no I/O.
// A nil identity always fails closed as unauthenticated, never forbidden,
// so callers surface the correct denial reason.

// RequireAuthenticated allows any resolved identity.
func RequireAuthenticated(id *Identity) error {
	if id == nil || id.Account == nil {
		return common.ErrUnauthenticated
	}
	return nil
}

// RequireRole allows only an exact role match. There is no hierarchy:
// admin does not implicitly satisfy a user requirement.
func RequireRole(id *Identity, role models.Role) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if id.Account.Role != role {
		return common.ErrForbidden
	}
	return nil
}

// RequireOwnerOrRole allows when the identity holds the given role or owns
// the resource. Ids are compared in canonical string form on both sides to
// avoid representation-mismatch surprises.
func RequireOwnerOrRole(id *Identity, resourceOwnerID string, role models.Role) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if id.Account.Role == role {
		return nil
	}
	if canonicalID(id.Account.ID) == canonicalID(resourceOwnerID) {
		return nil
	}
	return common.ErrForbidden
}

func canonicalID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
