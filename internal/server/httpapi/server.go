// Package httpapi exposes the authentication core over HTTP: the session
// gate middleware, the login and account endpoints, and the mapping from
// the error taxonomy to status codes (unauthenticated → 401, forbidden →
// 403).
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"authcore/internal/logging"
	"authcore/internal/server/models"
	"authcore/internal/server/services"
)

type Server struct {
	address  string
	gate     *Gate
	accounts *services.AccountService
	logger   logging.Logger
}

func NewServer(address string, gate *Gate, accounts *services.AccountService, logger logging.Logger) *Server {
	return &Server{
		address:  address,
		gate:     gate,
		accounts: accounts,
		logger:   logger.With("module", "http_server"),
	}
}

// Routes builds the router. Each route group carries exactly the gate mode
// its authorization level requires.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	ownerFromURL := func(r *http.Request) string { return chi.URLParam(r, "id") }

	r.Route("/api", func(r chi.Router) {
		// public
		r.Post("/login", s.handleLogin)

		// optional identity: registration honors the role field only for
		// admin callers, status varies by identity
		r.Group(func(r chi.Router) {
			r.Use(s.gate.Optional)
			r.Post("/accounts", s.handleRegister)
			r.Get("/status", s.handleStatus)
		})

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(s.gate.Required)
			r.Get("/me", s.handleMe)
		})

		// admin only
		r.Group(func(r chi.Router) {
			r.Use(s.gate.RequireRole(models.RoleAdmin))
			r.Get("/accounts", s.handleListAccounts)
		})

		// owner or admin
		r.Group(func(r chi.Router) {
			r.Use(s.gate.RequireOwnerOrRole(ownerFromURL, models.RoleAdmin))
			r.Get("/accounts/{id}", s.handleGetAccount)
			r.Delete("/accounts/{id}", s.handleDeleteAccount)
		})
	})

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
