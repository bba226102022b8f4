package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventreg/internal/registration/models"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
	"eventreg/pkg/requestcontext"
)

// maxBodyBytes caps the registration form body.
const maxBodyBytes = 64 << 10

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for registration operations.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Registration, error)
}

// Handler serves the public registration endpoint.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new registration Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the registration routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/register", h.HandleRegister)
}

// HandleRegister accepts the public form and stores a new registration.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req models.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid register request",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	stored, err := h.service.Register(ctx, &req)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.InfoContext(ctx, "registration rejected",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &models.RegisterResponse{
		Message: "Registration successful",
		ID:      stored.ID.String(),
	})
}
