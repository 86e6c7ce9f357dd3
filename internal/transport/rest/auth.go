package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ezbjus/bariwikiemerg/internal/service/adminauth"
	"github.com/ezbjus/bariwikiemerg/pkg/ctxutil"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Login(ctx context.Context, username, password string) (*adminauth.Session, error)
}

// AuthHandler serves admin authentication endpoints.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":    session.Token,
		"username": session.Username,
	})
}

// Me handles GET /api/admin/me. The admin middleware has already validated
// the token, so the username is always present here.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := ctxutil.AdminFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}
