// Package badger opens the embedded BadgerDB used by the badger import store
// and keeps its value log compacted in the background.
package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"census/internal/platform/config"
)

// Options controls how a database is opened.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path     string
	InMemory bool

	SyncWrites bool

	// GCInterval of zero disables value log garbage collection.
	GCInterval     time.Duration
	GCDiscardRatio float64

	// Logger receives Badger's internal log lines. Nil silences them.
	Logger *slog.Logger
}

// FromConfig maps the environment configuration onto Options.
func FromConfig(cfg config.BadgerConfig, logger *slog.Logger) Options {
	return Options{
		Path:           cfg.Path,
		SyncWrites:     cfg.SyncWrites,
		GCInterval:     cfg.GCInterval,
		GCDiscardRatio: cfg.GCDiscardRatio,
		Logger:         logger,
	}
}

// InMemoryOptions returns options for a throwaway database used in tests.
func InMemoryOptions() Options {
	return Options{InMemory: true}
}

// slogAdapter adapts slog.Logger to Badger's Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (l *slogAdapter) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *slogAdapter) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *slogAdapter) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *slogAdapter) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// DB wraps a Badger database together with its GC runner.
type DB struct {
	*badger.DB
	gc *gcRunner
}

// Open opens the database and starts value log GC when configured.
func Open(opts Options) (*DB, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("badger path is required for a persistent database")
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", opts.Path, err)
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithSyncWrites(opts.SyncWrites).WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(&slogAdapter{logger: opts.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	wrapped := &DB{DB: db}
	if opts.GCInterval > 0 && !opts.InMemory {
		ratio := opts.GCDiscardRatio
		if ratio <= 0 || ratio >= 1 {
			ratio = 0.5
		}
		wrapped.gc = startGC(db, opts.GCInterval, ratio, opts.Logger)
	}
	return wrapped, nil
}

// Close stops garbage collection and closes the database.
func (d *DB) Close() error {
	if d.gc != nil {
		d.gc.stop()
	}
	return d.DB.Close()
}

type gcRunner struct {
	db       *badger.DB
	interval time.Duration
	ratio    float64
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	once     sync.Once
}

func startGC(db *badger.DB, interval time.Duration, ratio float64, logger *slog.Logger) *gcRunner {
	r := &gcRunner{
		db:       db,
		interval: interval,
		ratio:    ratio,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *gcRunner) stop() {
	r.once.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

func (r *gcRunner) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.collect()
		}
	}
}

func (r *gcRunner) collect() {
	// ErrNoRewrite means there was nothing worth reclaiming
	err := r.db.RunValueLogGC(r.ratio)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || r.logger == nil {
		return
	}
	r.logger.Warn("badger value log gc failed", "error", err)
}
