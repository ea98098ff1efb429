// Package session persists dashboard sessions (saved form and table state)
// in SQLite.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrInvalid  = errors.New("invalid session")
)

type Session struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore expects a database already migrated by db.RunMigrations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Save inserts or replaces a session. An empty id gets a fresh uuid; the
// original creation time of an existing session is kept.
func (s *Store) Save(ctx context.Context, in Session) (Session, error) {
	if len(in.Data) == 0 || !json.Valid(in.Data) {
		return Session{}, fmt.Errorf("%w: data must be valid JSON", ErrInvalid)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now().UTC().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, id, strings.TrimSpace(in.Name), string(in.Data), now, now)
	if err != nil {
		return Session{}, fmt.Errorf("save session %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, data, created_at, updated_at FROM sessions WHERE id = ?`, id)
	sess, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

// List returns every session, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, data, created_at, updated_at FROM sessions ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		sess, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Session, error) {
	var (
		sess             Session
		data             string
		created, updated int64
	)
	if err := row.Scan(&sess.ID, &sess.Name, &data, &created, &updated); err != nil {
		return Session{}, err
	}
	sess.Data = json.RawMessage(data)
	sess.CreatedAt = time.UnixMilli(created).UTC()
	sess.UpdatedAt = time.UnixMilli(updated).UTC()
	return sess, nil
}
