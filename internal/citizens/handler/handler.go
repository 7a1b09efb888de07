package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"census/internal/citizens/models"
	"census/internal/platform/middleware"
	id "census/pkg/domain"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/httputil"
)

// DefaultMaxBodyBytes caps request bodies when no explicit limit is configured.
const DefaultMaxBodyBytes int64 = 32 << 20

// Service defines the citizens operations the HTTP layer depends on.
type Service interface {
	CreateImport(ctx context.Context, raw []models.RawCitizen) (id.ImportID, error)
	ListImports(ctx context.Context) ([]*models.Import, error)
	ListCitizens(ctx context.Context, importID id.ImportID) ([]models.Citizen, error)
	UpdateCitizen(ctx context.Context, importID id.ImportID, citizenID id.CitizenID, raw models.RawCitizen) (*models.Citizen, error)
	Birthdays(ctx context.Context, importID id.ImportID) (models.BirthdayReport, error)
	TownAgePercentiles(ctx context.Context, importID id.ImportID) ([]models.TownAgeStats, error)
	Ping(ctx context.Context) error
}

// Handler serves the import and report endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	maxBodyBytes int64
}

type Option func(*Handler)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// New creates a new citizens Handler.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger:       logger,
		service:      service,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the citizens routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/imports", h.handleCreateImport)
	r.Get("/imports", h.handleListImports)
	r.Route("/imports/{import_id}", func(r chi.Router) {
		r.Get("/citizens", h.handleListCitizens)
		r.Get("/citizens/birthdays", h.handleBirthdays)
		r.Patch("/citizens/{citizen_id}", h.handleUpdateCitizen)
		r.Get("/towns/stat/percentile/age", h.handleTownAgePercentiles)
	})
	r.Get("/healthz", h.handleHealth)
}

type createImportRequest struct {
	Citizens *[]models.RawCitizen `json:"citizens"`
}

type createImportResponse struct {
	ImportID id.ImportID `json:"import_id"`
}

func (h *Handler) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createImportRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	if req.Citizens == nil {
		h.writeError(ctx, w, dErrors.New(dErrors.CodeMalformedRequest, "citizens must be specified"))
		return
	}

	importID, err := h.service.CreateImport(ctx, *req.Citizens)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, createImportResponse{ImportID: importID})
}

func (h *Handler) handleListImports(w http.ResponseWriter, r *http.Request) {
	imports, err := h.service.ListImports(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, imports)
}

func (h *Handler) handleListCitizens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, err := id.ParseImportID(chi.URLParam(r, "import_id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	citizens, err := h.service.ListCitizens(ctx, importID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, citizens)
}

func (h *Handler) handleUpdateCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, err := id.ParseImportID(chi.URLParam(r, "import_id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	citizenID, err := id.ParseCitizenID(chi.URLParam(r, "citizen_id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	var patch models.RawCitizen
	if err := h.decodeBody(w, r, &patch); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	citizen, err := h.service.UpdateCitizen(ctx, importID, citizenID, patch)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, citizen)
}

func (h *Handler) handleBirthdays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, err := id.ParseImportID(chi.URLParam(r, "import_id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	report, err := h.service.Birthdays(ctx, importID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, report)
}

func (h *Handler) handleTownAgePercentiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, err := id.ParseImportID(chi.URLParam(r, "import_id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	stats, err := h.service.TownAgePercentiles(ctx, importID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "health check failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody reads exactly one JSON value into dst, capped at maxBodyBytes.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return dErrors.Wrap(err, dErrors.CodeMalformedRequest,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			return dErrors.New(dErrors.CodeMalformedRequest, "request body is empty")
		default:
			return dErrors.Wrap(err, dErrors.CodeMalformedRequest, "invalid request body")
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeMalformedRequest, "request body must contain a single JSON value")
	}
	return nil
}

// writeError logs client errors at warn and everything else at error, then
// renders the error body.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	requestID := middleware.GetRequestID(ctx)
	code := dErrors.CodeInternal
	if de, ok := dErrors.As(err); ok {
		code = de.Code
	}
	if dErrors.IsClientError(code) {
		h.logger.WarnContext(ctx, "request failed",
			"code", code,
			"error", err.Error(),
			"request_id", requestID,
		)
	} else {
		h.logger.ErrorContext(ctx, "request failed",
			"code", code,
			"error", err.Error(),
			"request_id", requestID,
		)
	}
	httputil.WriteError(w, err)
}
