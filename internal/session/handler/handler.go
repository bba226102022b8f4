package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventreg/internal/session/models"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
	authmw "eventreg/pkg/platform/middleware/auth"
	"eventreg/pkg/requestcontext"
)

const maxBodyBytes = 4 << 10

// Service defines the session operations the handler needs.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
}

// Handler serves admin login and logout.
type Handler struct {
	service        Service
	requireSession func(http.Handler) http.Handler
	logger         *slog.Logger
}

// New creates a session Handler. requireSession guards logout.
func New(service Service, requireSession func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{
		service:        service,
		requireSession: requireSession,
		logger:         logger,
	}
}

// Register registers the session routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/admin/login", h.HandleLogin)
	r.With(h.requireSession).Post("/api/admin/logout", h.HandleLogout)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sess, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &models.LoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Message:   "Login successful",
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := authmw.BearerToken(r)
	if err := h.service.Logout(r.Context(), token); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
