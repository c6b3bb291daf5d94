package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists variables to SQLite.
// It is suitable for single-process use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	retry  RetryConfig
	logger *slog.Logger
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithRetry sets how operations are retried while the database is locked
// by another process. Defaults to DefaultRetry.
func WithRetry(cfg RetryConfig) SQLiteOption {
	return func(s *SQLiteStore) {
		s.retry = cfg
	}
}

// WithLogger sets the logger for retry diagnostics. Nil disables logging.
func WithLogger(logger *slog.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		s.logger = logger
	}
}

// NewSQLiteStore opens or creates a SQLite variable store.
// The path should be a file path (e.g., "./vars.db") or ":memory:" for testing.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS variables (
			id TEXT NOT NULL UNIQUE,
			scope TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (scope, name)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	s := &SQLiteStore{db: db, retry: DefaultRetry}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, scope, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	// The id is only used on first insert; updates keep the existing one.
	id := uuid.New().String()
	err := withRetry(ctx, s.retry, s.logger, "set", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO variables (id, scope, name, value, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(scope, name) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, id, scope, name, value, time.Now().UTC().Format(time.RFC3339Nano))
		return err
	})
	if err != nil {
		return fmt.Errorf("set variable: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, scope, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	var value string
	err := withRetry(ctx, s.retry, s.logger, "get", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT value FROM variables
			WHERE scope = ? AND name = ?
		`, scope, name).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get variable: %w", err)
	}
	return value, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, scope string) ([]Variable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var out []Variable
	err := withRetry(ctx, s.retry, s.logger, "list", func(ctx context.Context) error {
		var err error
		out, err = s.list(ctx, scope)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) list(ctx context.Context, scope string) ([]Variable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, value, updated_at
		FROM variables
		WHERE scope = ?
		ORDER BY name
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	defer rows.Close()

	out := []Variable{}
	for rows.Next() {
		v := Variable{Scope: scope}
		var updated string
		if err := rows.Scan(&v.ID, &v.Name, &v.Value, &updated); err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		if v.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at of %s: %w", v.Name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variables: %w", err)
	}
	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, scope, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	err := withRetry(ctx, s.retry, s.logger, "delete", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM variables WHERE scope = ? AND name = ?`, scope, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete variable: %w", err)
	}
	return nil
}

// DeleteScope implements Store.
func (s *SQLiteStore) DeleteScope(ctx context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	err := withRetry(ctx, s.retry, s.logger, "delete_scope", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM variables WHERE scope = ?`, scope)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete scope: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
