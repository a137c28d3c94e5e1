package httpapi

import (
	"context"

	"authcore/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity attaches a resolved identity to the request context.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity attached by the session gate, or nil
// when the request is anonymous.
func IdentityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}
