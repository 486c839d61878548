// Package checkpoint persists encoded task records so a task can be resumed
// later. Payloads are the ordered JSON form of a taskmap.WireObject; callers
// decode them again with task.Mapper.DecodeObject.
package checkpoint

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/reoring/taskmap"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no checkpoint has the requested ID.
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoint is one saved task record.
type Checkpoint struct {
	ID        string
	Kind      string
	Policy    string // policy the record was decoded with, e.g. "config"
	Payload   taskmap.WireObject
	CreatedAt time.Time
}

// Store is a SQLite-backed checkpoint store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores an encoded record of the given kind, decoded under the named
// policy, and returns its new ID.
func (s *Store) Save(ctx context.Context, kind, policy string, w taskmap.WireObject) (string, error) {
	if kind == "" {
		return "", fmt.Errorf("save checkpoint: kind is empty")
	}
	payload, err := w.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("save checkpoint: %w", err)
	}
	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (id, kind, policy, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, kind, policy, string(payload), s.now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("save checkpoint: %w", err)
	}
	return id, nil
}

// Load returns the checkpoint with the given ID.
func (s *Store) Load(ctx context.Context, id string) (Checkpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, policy, payload, created_at FROM checkpoints WHERE id = ?`, id)
	cp, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Checkpoint{}, fmt.Errorf("load checkpoint %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Checkpoint{}, fmt.Errorf("load checkpoint %s: %w", id, err)
	}
	return cp, nil
}

// List returns checkpoints oldest first. An empty kind lists every kind.
func (s *Store) List(ctx context.Context, kind string) ([]Checkpoint, error) {
	q := `SELECT id, kind, policy, payload, created_at FROM checkpoints`
	var args []any
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY created_at, rowid`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		cp, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list checkpoints: %w", err)
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return out, nil
}

// Delete removes a checkpoint.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete checkpoint %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(r scanner) (Checkpoint, error) {
	var (
		cp      Checkpoint
		payload string
		created int64
	)
	if err := r.Scan(&cp.ID, &cp.Kind, &cp.Policy, &payload, &created); err != nil {
		return Checkpoint{}, err
	}
	if err := cp.Payload.UnmarshalJSON([]byte(payload)); err != nil {
		return Checkpoint{}, fmt.Errorf("corrupt payload: %w", err)
	}
	cp.CreatedAt = time.Unix(0, created).UTC()
	return cp, nil
}
