package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eventreg/internal/admin/export"
	"eventreg/internal/admin/models"
	regmodels "eventreg/internal/registration/models"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
	"eventreg/pkg/requestcontext"
)

// Service defines the admin query operations.
type Service interface {
	List(ctx context.Context, query string) ([]*regmodels.Registration, error)
	Get(ctx context.Context, id uuid.UUID) (*regmodels.Registration, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error)
	ExportTable(ctx context.Context) ([][]string, error)
	Ticket(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Handler serves the session-protected admin endpoints.
type Handler struct {
	service        Service
	requireSession func(http.Handler) http.Handler
	logger         *slog.Logger
}

// New creates an admin Handler. Every route is wrapped in requireSession.
func New(service Service, requireSession func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{
		service:        service,
		requireSession: requireSession,
		logger:         logger,
	}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/api/registrations", h.HandleList)
		r.Get("/api/registrations/export.csv", h.HandleExport)
		r.Get("/api/registrations/{id}", h.HandleGet)
		r.Get("/api/registrations/{id}/ticket.png", h.HandleTicket)
		r.Delete("/api/registrations/{id}", h.HandleDelete)
		r.Get("/api/stats", h.HandleStats)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	png, err := h.service.Ticket(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleDelete reports 404 for an id that has no record, as the dashboard
// expects, although the service treats it as a no-op.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.registrationID(w, r)
	if !ok {
		return
	}
	res, err := h.service.Delete(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !res.Deleted {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "registration not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &models.DeleteResponse{
		Message: "Registration deleted successfully",
		Deleted: true,
	})
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleExport renders the whole table before writing so a storage failure
// still produces a JSON error instead of a truncated file.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, err := h.service.ExportTable(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode export",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to export registrations"))
		return
	}

	filename := export.Filename(requestcontext.Now(ctx))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) registrationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid registration id"))
		return uuid.Nil, false
	}
	return id, true
}
