package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/opugacodez/tokei/internal/model"
)

const (
	tasksKey       = "tasks"
	clockFormatKey = "clockFormat"
)

// PersistenceError marks a failed store read or write. Callers are expected
// to keep their in-memory collection and treat the operation as not durably
// completed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is a small key-value persistence layer over SQLite. The whole task
// collection lives under a single key as one JSON array: every mutation
// rewrites the full snapshot, so concurrent readers only ever observe a
// fully-consistent collection. Collections are personal task lists, small
// enough that incremental writes would buy nothing.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens (or creates) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath resolves the database location under XDG_DATA_HOME, creating
// the directory if needed.
func DefaultPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(dataHome, "tokei")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "tokei.db"), nil
}

// LoadTasks reads the current collection snapshot. It fails soft: a missing
// key yields an empty collection and a nil error; a read or deserialization
// failure yields an empty collection and a *PersistenceError for the caller
// to report.
func (s *Store) LoadTasks(ctx context.Context) ([]model.Task, error) {
	raw, err := s.get(ctx, tasksKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []model.Task{}, nil
		}
		return []model.Task{}, &PersistenceError{Op: "load tasks", Err: err}
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return []model.Task{}, &PersistenceError{Op: "decode tasks", Err: err}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// SaveTasks rewrites the full collection under a single row, so other
// readers swap between consistent snapshots and never see a partial write.
func (s *Store) SaveTasks(ctx context.Context, tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return &PersistenceError{Op: "encode tasks", Err: err}
	}
	if err := s.set(ctx, tasksKey, string(raw)); err != nil {
		return &PersistenceError{Op: "save tasks", Err: err}
	}
	return nil
}

// ClockFormat returns the persisted clock display preference, "24" or "12".
// Defaults to "24" when unset.
func (s *Store) ClockFormat(ctx context.Context) (string, error) {
	raw, err := s.get(ctx, clockFormatKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "24", nil
		}
		return "24", &PersistenceError{Op: "load clock format", Err: err}
	}
	if raw != "12" && raw != "24" {
		return "24", nil
	}
	return raw, nil
}

func (s *Store) SetClockFormat(ctx context.Context, format string) error {
	if format != "12" && format != "24" {
		return &PersistenceError{Op: "save clock format", Err: fmt.Errorf("unknown format %q", format)}
	}
	if err := s.set(ctx, clockFormatKey, format); err != nil {
		return &PersistenceError{Op: "save clock format", Err: err}
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}
