package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	"census/pkg/platform/circuit"
	"census/pkg/platform/sentinel"
)

// GuardedStore wraps a networked backend with a circuit breaker. While the
// breaker is open and cooling down, calls fail with sentinel.ErrUnavailable
// without reaching the backend.
type GuardedStore struct {
	next    Store
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewGuarded wraps next. A nil logger discards breaker transitions.
func NewGuarded(next Store, breaker *circuit.Breaker, logger *slog.Logger) *GuardedStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GuardedStore{next: next, breaker: breaker, logger: logger}
}

func (g *GuardedStore) Create(ctx context.Context, citizens []models.Citizen) (id.ImportID, error) {
	var importID id.ImportID
	err := g.call(ctx, "create", func() error {
		var err error
		importID, err = g.next.Create(ctx, citizens)
		return err
	})
	return importID, err
}

func (g *GuardedStore) Get(ctx context.Context, importID id.ImportID) (*models.Import, error) {
	var imp *models.Import
	err := g.call(ctx, "get", func() error {
		var err error
		imp, err = g.next.Get(ctx, importID)
		return err
	})
	return imp, err
}

func (g *GuardedStore) Replace(ctx context.Context, importID id.ImportID, citizens []models.Citizen) error {
	return g.call(ctx, "replace", func() error {
		return g.next.Replace(ctx, importID, citizens)
	})
}

func (g *GuardedStore) List(ctx context.Context) ([]*models.Import, error) {
	var imports []*models.Import
	err := g.call(ctx, "list", func() error {
		var err error
		imports, err = g.next.List(ctx)
		return err
	})
	return imports, err
}

// Ping always reaches the backend so health checks see its real state, and
// a successful ping counts toward closing the breaker.
func (g *GuardedStore) Ping(ctx context.Context) error {
	p, ok := g.next.(Pinger)
	if !ok {
		return nil
	}
	err := p.Ping(ctx)
	g.record(ctx, "ping", err)
	return err
}

func (g *GuardedStore) call(ctx context.Context, op string, fn func() error) error {
	if !g.breaker.Allow() {
		return fmt.Errorf("%s: circuit %s open: %w", op, g.breaker.Name(), sentinel.ErrUnavailable)
	}
	err := fn()
	g.record(ctx, op, err)
	return err
}

// record treats missing imports and caller cancellation as healthy outcomes;
// only backend faults count against the breaker.
func (g *GuardedStore) record(ctx context.Context, op string, err error) {
	if err == nil || errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, context.Canceled) {
		if _, change := g.breaker.RecordSuccess(); change.Closed {
			g.logger.InfoContext(ctx, "import store circuit closed", "breaker", g.breaker.Name(), "operation", op)
		}
		return
	}
	if _, change := g.breaker.RecordFailure(); change.Opened {
		g.logger.WarnContext(ctx, "import store circuit opened",
			"breaker", g.breaker.Name(),
			"operation", op,
			"error", err,
		)
	}
}
