package session

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	sqlDB := db.MustOpenMigrated(filepath.Join(t.TempDir(), "sessions.db"), logging.Discard())
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewStore(sqlDB)
}

func TestStore_SaveGeneratesIDAndRoundTrips(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, Session{Name: " draft ", Data: json.RawMessage(`{"step":2}`)})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "draft", saved.Name)
	assert.JSONEq(t, `{"step":2}`, string(saved.Data))

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestStore_SaveUpsertKeepsCreatedAt(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return t0 }
	first, err := store.Save(ctx, Session{ID: "s1", Data: json.RawMessage(`{"v":1}`)})
	require.NoError(t, err)

	store.now = func() time.Time { return t0.Add(time.Hour) }
	second, err := store.Save(ctx, Session{ID: "s1", Data: json.RawMessage(`{"v":2}`)})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), second.UpdatedAt)
	assert.JSONEq(t, `{"v":2}`, string(second.Data))
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		store.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		_, err := store.Save(ctx, Session{ID: id, Data: json.RawMessage(`{}`)})
		require.NoError(t, err)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestStore_Errors(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Save(ctx, Session{Data: json.RawMessage(`{not json`)})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = store.Save(ctx, Session{})
	assert.ErrorIs(t, err, ErrInvalid)
}
