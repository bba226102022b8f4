package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventreg/internal/platform/metrics"
	"eventreg/pkg/platform/httputil"
	"eventreg/pkg/platform/middleware/metadata"
	"eventreg/pkg/platform/middleware/request"
	"eventreg/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig carries everything the top-level router wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	Handlers       []Registrar
	HealthChecks   map[string]HealthCheck
}

// NewRouter builds the chi router with the shared middleware chain, module
// routes, /healthz and /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(request.LatencyMiddleware(cfg.Metrics))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	for _, h := range cfg.Handlers {
		h.Register(r)
	}

	r.Get("/healthz", healthHandler(cfg.HealthChecks, cfg.Logger))
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
