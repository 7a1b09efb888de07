package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	"census/pkg/platform/sentinel"
	txcontext "census/pkg/platform/tx"
)

// PostgresSchema creates the imports table. Applied by EnsureSchema and by
// integration tests.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS imports (
	import_id BIGINT PRIMARY KEY,
	payload   JSONB NOT NULL
)`

const pgUniqueViolation = "23505"

// PostgresStore persists imports in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed import store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects with lib/pq, verifies the connection and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := NewPostgres(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("create postgres schema: %w", err)
	}
	return nil
}

// Create assigns MAX(import_id)+1 in the insert itself. Two concurrent creators
// can compute the same id; the loser hits the primary key and retries.
func (s *PostgresStore) Create(ctx context.Context, citizens []models.Citizen) (id.ImportID, error) {
	citizens = models.CloneCitizens(citizens)
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		var importID id.ImportID
		err := txcontext.Run(ctx, s.db, nil, func(ctx context.Context) error {
			conn := txcontext.Conn(ctx, s.db)
			var next int64
			if err := conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(import_id), 0) + 1 FROM imports`).Scan(&next); err != nil {
				return fmt.Errorf("select next import id: %w", err)
			}
			importID = id.ImportID(next)
			payload, err := encodeImport(importID, citizens)
			if err != nil {
				return err
			}
			_, err = conn.ExecContext(ctx, `INSERT INTO imports (import_id, payload) VALUES ($1, $2)`, next, string(payload))
			return err
		})
		if err == nil {
			return importID, nil
		}
		if !isUniqueViolation(err) {
			return 0, fmt.Errorf("create import: %w", err)
		}
	}
	return 0, fmt.Errorf("create import: %w", sentinel.ErrConflict)
}

func (s *PostgresStore) Get(ctx context.Context, importID id.ImportID) (*models.Import, error) {
	var payload []byte
	err := txcontext.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT payload FROM imports WHERE import_id = $1`, int64(importID)).
		Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get import: %w", err)
	}
	return decodeImport(payload)
}

func (s *PostgresStore) Replace(ctx context.Context, importID id.ImportID, citizens []models.Citizen) error {
	payload, err := encodeImport(importID, models.CloneCitizens(citizens))
	if err != nil {
		return err
	}
	res, err := txcontext.Conn(ctx, s.db).
		ExecContext(ctx, `UPDATE imports SET payload = $1 WHERE import_id = $2`, string(payload), int64(importID))
	if err != nil {
		return fmt.Errorf("replace import: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Import, error) {
	rows, err := txcontext.Conn(ctx, s.db).
		QueryContext(ctx, `SELECT payload FROM imports ORDER BY import_id`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []*models.Import
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imp, err := decodeImport(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
