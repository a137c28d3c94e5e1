package httpapi

import (
	"fmt"
	"net/http"

	"authcore/internal/common"
	"authcore/internal/logging"
	"authcore/internal/server/auth"
	"authcore/internal/server/models"
)

// Gate is the per-request session gate: it resolves the Authorization
// header into an identity and applies the route's authorization policy,
// either populating the request context or writing a structured denial.
type Gate struct {
	resolver *auth.Resolver
	logger   logging.Logger
}

func NewGate(resolver *auth.Resolver, logger logging.Logger) *Gate {
	return &Gate{resolver: resolver, logger: logger.With("module", "session_gate")}
}

// resolve wraps the resolver so that any unexpected fault — including a
// panicking collaborator — collapses to an anonymous request. Lookup-layer
// detail never reaches the client.
func (g *Gate) resolve(r *http.Request) (id *auth.Identity) {
	defer func() {
		if p := recover(); p != nil {
			g.logger.Error(r.Context(), "panic during identity resolution", "panic", fmt.Sprint(p))
			id = nil
		}
	}()
	return g.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
}

// Optional attaches the identity when one resolves but never denies; the
// route proceeds either way. For endpoints whose behavior varies by
// identity without requiring it.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := g.resolve(r); id != nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Required denies unauthenticated requests and attaches the identity
// otherwise.
func (g *Gate) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := g.resolve(r)
		if err := auth.RequireAuthenticated(id); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireRole builds on Required and additionally demands an exact role
// match.
func (g *Gate) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.RequireRole(IdentityFrom(r.Context()), role); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RequireOwnerOrRole allows the request when the identity owns the resource
// (per ownerID, usually read from the URL) or holds the given role.
func (g *Gate) RequireOwnerOrRole(ownerID func(r *http.Request) string, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.RequireOwnerOrRole(IdentityFrom(r.Context()), ownerID(r), role); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// statusForError maps the error taxonomy to HTTP statuses. Anything that is
// not an expected outcome surfaces as a generic 500 without internal detail.
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case isAny(err, common.ErrUnauthenticated, common.ErrInvalidCredentials, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case isAny(err, common.ErrForbidden):
		return http.StatusForbidden
	case isAny(err, common.ErrNotFound):
		return http.StatusNotFound
	case isAny(err, common.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
