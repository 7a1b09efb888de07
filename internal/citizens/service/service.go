package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"census/internal/citizens/metrics"
	"census/internal/citizens/models"
	"census/internal/citizens/relatives"
	"census/internal/citizens/reports"
	"census/internal/citizens/store"
	"census/internal/citizens/validation"
	id "census/pkg/domain"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/sentinel"
	"census/pkg/requestcontext"
)

const tracerName = "census/internal/citizens/service"

// Service orchestrates imports: validation before any write, relatives
// reconciliation on update, and report derivation on read.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("import store is required")
	}
	s := &Service{store: st}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// CreateImport validates a whole batch and stores it under a fresh import id.
// Nothing is written when any citizen is rejected.
func (s *Service) CreateImport(ctx context.Context, raw []models.RawCitizen) (id.ImportID, error) {
	ctx, span := s.tracer.Start(ctx, "citizens.CreateImport",
		trace.WithAttributes(attribute.Int("citizens.count", len(raw))))
	defer span.End()

	citizens, err := validation.ParseCitizens(raw, requestcontext.Now(ctx))
	if err != nil {
		s.rejected(ctx, span, "create_import", err)
		return 0, err
	}

	importID, err := s.store.Create(ctx, citizens)
	if err != nil {
		return 0, s.storeFailure(ctx, span, err, "failed to store import")
	}

	span.SetAttributes(attribute.Int64("import.id", int64(importID)))
	s.metrics.IncrementImportsCreated(len(citizens))
	s.logger.InfoContext(ctx, "import created",
		"import_id", importID,
		"citizens", len(citizens),
		"request_id", requestcontext.RequestID(ctx),
	)
	return importID, nil
}

// ListImports returns every stored import ordered by id.
func (s *Service) ListImports(ctx context.Context) ([]*models.Import, error) {
	ctx, span := s.tracer.Start(ctx, "citizens.ListImports")
	defer span.End()

	imports, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, span, err, "failed to list imports")
	}
	if imports == nil {
		imports = []*models.Import{}
	}
	return imports, nil
}

// ListCitizens returns an import's citizens in insertion order.
func (s *Service) ListCitizens(ctx context.Context, importID id.ImportID) ([]models.Citizen, error) {
	ctx, span := s.tracer.Start(ctx, "citizens.ListCitizens",
		trace.WithAttributes(attribute.Int64("import.id", int64(importID))))
	defer span.End()

	imp, err := s.load(ctx, span, importID)
	if err != nil {
		return nil, err
	}
	return imp.Citizens, nil
}

// UpdateCitizen applies a partial update to one citizen. When relatives change,
// the peers gained or lost are updated too, and the whole import must stay
// symmetric before anything is written back.
func (s *Service) UpdateCitizen(ctx context.Context, importID id.ImportID, citizenID id.CitizenID, raw models.RawCitizen) (*models.Citizen, error) {
	ctx, span := s.tracer.Start(ctx, "citizens.UpdateCitizen",
		trace.WithAttributes(
			attribute.Int64("import.id", int64(importID)),
			attribute.Int64("citizen.id", int64(citizenID)),
		))
	defer span.End()

	imp, err := s.load(ctx, span, importID)
	if err != nil {
		return nil, err
	}

	patch, err := validation.ParsePatch(raw, requestcontext.Now(ctx))
	if err != nil {
		s.rejected(ctx, span, "update_citizen", err)
		return nil, err
	}

	// the store hands out detached copies, so the roster is ours to mutate
	roster := models.NewRoster(imp.Citizens)
	target, ok := roster.Get(citizenID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "citizen not found")
	}

	oldRelatives := slices.Clone(target.Relatives)
	patch.Apply(target)
	if patch.Relatives != nil {
		if err := relatives.Reconcile(roster, citizenID, oldRelatives, target.Relatives); err != nil {
			s.rejected(ctx, span, "update_citizen", err)
			return nil, err
		}
		if err := validation.CheckRelatives(roster); err != nil {
			s.rejected(ctx, span, "update_citizen", err)
			return nil, err
		}
	}

	if err := s.store.Replace(ctx, importID, roster.Citizens()); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "import not found")
		}
		return nil, s.storeFailure(ctx, span, err, "failed to store import")
	}

	s.metrics.IncrementCitizenUpdates()
	s.logger.InfoContext(ctx, "citizen updated",
		"import_id", importID,
		"citizen_id", citizenID,
		"relatives_changed", patch.Relatives != nil,
		"request_id", requestcontext.RequestID(ctx),
	)
	updated := target.Clone()
	return &updated, nil
}

// Birthdays derives the per-month presents report for an import.
func (s *Service) Birthdays(ctx context.Context, importID id.ImportID) (models.BirthdayReport, error) {
	ctx, span := s.tracer.Start(ctx, "citizens.Birthdays",
		trace.WithAttributes(attribute.Int64("import.id", int64(importID))))
	defer span.End()

	imp, err := s.load(ctx, span, importID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	report := reports.Birthdays(models.NewRoster(imp.Citizens))
	s.metrics.ObserveReportDuration("birthdays", time.Since(start))
	return report, nil
}

// TownAgePercentiles derives age percentiles per town as of the request time.
func (s *Service) TownAgePercentiles(ctx context.Context, importID id.ImportID) ([]models.TownAgeStats, error) {
	ctx, span := s.tracer.Start(ctx, "citizens.TownAgePercentiles",
		trace.WithAttributes(attribute.Int64("import.id", int64(importID))))
	defer span.End()

	imp, err := s.load(ctx, span, importID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	stats := reports.TownAgePercentiles(imp.Citizens, requestcontext.Now(ctx))
	s.metrics.ObserveReportDuration("age_percentiles", time.Since(start))
	return stats, nil
}

// Ping reports whether the backing store is reachable. Stores that cannot tell
// are assumed healthy.
func (s *Service) Ping(ctx context.Context) error {
	pinger, ok := s.store.(store.Pinger)
	if !ok {
		return nil
	}
	if err := pinger.Ping(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store unavailable")
	}
	return nil
}

func (s *Service) load(ctx context.Context, span trace.Span, importID id.ImportID) (*models.Import, error) {
	imp, err := s.store.Get(ctx, importID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "import not found")
		}
		return nil, s.storeFailure(ctx, span, err, "failed to load import")
	}
	return imp, nil
}

func (s *Service) rejected(ctx context.Context, span trace.Span, operation string, err error) {
	code := string(dErrors.CodeInternal)
	if de, ok := dErrors.As(err); ok {
		code = string(de.Code)
	}
	span.SetAttributes(attribute.String("error.code", code))
	s.metrics.IncrementValidationFailure(operation, code)
	s.logger.WarnContext(ctx, "request rejected",
		"operation", operation,
		"code", code,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func (s *Service) storeFailure(ctx context.Context, span trace.Span, err error, message string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	s.logger.ErrorContext(ctx, message,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
