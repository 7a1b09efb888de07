package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"census/internal/citizens/handler"
	"census/internal/platform/metrics"
	"census/internal/platform/middleware"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/httputil"
	"census/pkg/platform/middleware/metadata"
	"census/pkg/platform/middleware/requesttime"
)

// Config carries everything NewRouter needs. Gatherer and Metrics are optional.
type Config struct {
	Logger         *slog.Logger
	Service        handler.Service
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// Clock stamps each request with its reference time. Defaults to time.Now.
	Clock func() time.Time
}

// NewRouter wires the public endpoints behind the shared middleware chain.
// /metrics is mounted outside the chain so scrapes do not count as traffic.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	r := chi.NewRouter()
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(logger))
		r.Use(middleware.RequestID)
		r.Use(metadata.ClientMetadata)
		r.Use(requesttime.WithClock(clock))
		r.Use(middleware.Logger(logger))
		r.Use(middleware.Timeout(timeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.LatencyMiddleware(cfg.Metrics))

		h := handler.New(cfg.Service, logger, handler.WithMaxBodyBytes(cfg.MaxBodyBytes))
		h.Register(r)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "method_not_allowed"})
	})
	return r
}
