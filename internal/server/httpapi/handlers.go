package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"authcore/internal/common"
	"authcore/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type accountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func viewOf(a *models.Account) accountView {
	return accountView{
		ID:        a.ID,
		Email:     a.Email,
		Role:      string(a.Role),
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = common.ErrInternal.Error()
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":   res.Token,
		"account": viewOf(res.Account),
	})
}

// handleRegister runs behind the gate's optional mode: anyone may create a
// user account, but the requested role is honored only when the caller is
// an authenticated admin.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		requester := IdentityFrom(r.Context())
		if requester != nil && requester.Account.Role == models.RoleAdmin {
			role = models.Role(req.Role)
			if !role.Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown role"})
				return
			}
		}
	}

	acc, err := s.accounts.Register(r.Context(), req.Email, req.Password, role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, viewOf(acc))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, viewOf(id.Account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accs, err := s.accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]accountView, 0, len(accs))
	for _, a := range accs {
		views = append(views, viewOf(a))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := s.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(acc))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStatus is the optional-mode endpoint: the response shape varies by
// identity but absence never denies.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "authenticated": false}
	if id := IdentityFrom(r.Context()); id != nil {
		body["authenticated"] = true
		body["account_id"] = id.Account.ID
	}
	writeJSON(w, http.StatusOK, body)
}
