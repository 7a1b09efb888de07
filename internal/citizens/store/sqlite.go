package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"census/internal/citizens/models"
	id "census/pkg/domain"
	"census/pkg/platform/sentinel"
	txcontext "census/pkg/platform/tx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS imports (
	import_id INTEGER PRIMARY KEY,
	payload   TEXT NOT NULL
)`

// SQLiteStore persists imports in an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; readers share the same connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, citizens []models.Citizen) (id.ImportID, error) {
	var importID id.ImportID
	err := txcontext.Run(ctx, s.db, nil, func(ctx context.Context) error {
		conn := txcontext.Conn(ctx, s.db)
		var maxID int64
		if err := conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(import_id), 0) FROM imports`).Scan(&maxID); err != nil {
			return fmt.Errorf("select max import id: %w", err)
		}
		importID = id.ImportID(maxID + 1)

		payload, err := encodeImport(importID, models.CloneCitizens(citizens))
		if err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx, `INSERT INTO imports (import_id, payload) VALUES (?, ?)`, int64(importID), string(payload)); err != nil {
			return fmt.Errorf("insert import: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return importID, nil
}

func (s *SQLiteStore) Get(ctx context.Context, importID id.ImportID) (*models.Import, error) {
	var payload string
	err := txcontext.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT payload FROM imports WHERE import_id = ?`, int64(importID)).
		Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get import: %w", err)
	}
	return decodeImport([]byte(payload))
}

func (s *SQLiteStore) Replace(ctx context.Context, importID id.ImportID, citizens []models.Citizen) error {
	payload, err := encodeImport(importID, models.CloneCitizens(citizens))
	if err != nil {
		return err
	}
	res, err := txcontext.Conn(ctx, s.db).
		ExecContext(ctx, `UPDATE imports SET payload = ? WHERE import_id = ?`, string(payload), int64(importID))
	if err != nil {
		return fmt.Errorf("replace import: %w", err)
	}
	return requireOneRow(res)
}

func (s *SQLiteStore) List(ctx context.Context) ([]*models.Import, error) {
	rows, err := txcontext.Conn(ctx, s.db).
		QueryContext(ctx, `SELECT payload FROM imports ORDER BY import_id`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []*models.Import
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imp, err := decodeImport([]byte(payload))
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

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying SQLite database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
