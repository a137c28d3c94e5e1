package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"authcore/internal/common"
	"authcore/internal/logging"
	"authcore/internal/server/models"
)

// bearerScheme is the only accepted credential scheme word, case-sensitive.
const bearerScheme = "Bearer"

// AccountSource is the live account lookup the resolver re-reads identities
// from. Token claims are treated as a pointer, not as current truth.
type AccountSource interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
}

// Identity is the request-scoped result of a successful resolution: the
// freshly loaded account (secret stripped) plus the decoded token claims.
// It is never persisted.
type Identity struct {
	Account *models.Account
	Claims  *Claims
}

// Resolver turns a raw Authorization header into a verified identity.
type Resolver struct {
	codec         *Codec
	accounts      AccountSource
	lookupTimeout time.Duration
	logger        logging.Logger
}

func NewResolver(codec *Codec, accounts AccountSource, lookupTimeout time.Duration, logger logging.Logger) *Resolver {
	if lookupTimeout <= 0 {
		lookupTimeout = 2 * time.Second
	}
	return &Resolver{
		codec:         codec,
		accounts:      accounts,
		lookupTimeout: lookupTimeout,
		logger:        logger.With("module", "resolver"),
	}
}

// Resolve validates the Authorization header and returns the identity it
// proves, or nil when no identity can be established. Every failure mode —
// missing header, wrong scheme, invalid or expired token, vanished account,
// lookup fault — collapses to nil; the caller decides whether nil is a
// denial. Lookup-layer errors are logged here and never leak to the caller.
func (r *Resolver) Resolve(ctx context.Context, header string) *Identity {
	if header == "" {
		return nil
	}

	// Exactly two space-separated parts, scheme word matched verbatim.
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return nil
	}

	claims, err := r.codec.Verify(parts[1])
	if err != nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	account, err := r.accounts.FindByID(lookupCtx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Valid signature for an account that no longer exists.
			r.logger.Debug(ctx, "token subject no longer exists", "subject", claims.ID)
		} else {
			r.logger.Error(ctx, "account lookup failed during resolution", "error", err.Error())
		}
		return nil
	}

	return &Identity{Account: account.Sanitized(), Claims: claims}
}
