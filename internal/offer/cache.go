package offer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
)

// KeyPrefix namespaces offer entries in every backend.
const KeyPrefix = "offer_"

var ErrMiss = errors.New("cache miss")

func Key(id string) string { return KeyPrefix + id }

// Backend is one storage medium for cached offers. Get returns ErrMiss when
// the key is absent.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Cache is a best-effort offer cache over a primary backend with an
// in-memory fallback. Backend errors are logged and swallowed: a failed write
// is dropped and a failed read is a miss. There is no TTL and no conflict
// detection; the last write wins.
type Cache struct {
	primary  Backend
	fallback *MemoryBackend
	logger   *slog.Logger
}

// NewCache builds a cache over primary. A nil primary yields a memory-only cache.
func NewCache(primary Backend, logger *slog.Logger) *Cache {
	fallback := NewMemoryBackend()
	if primary == nil {
		primary = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{primary: primary, fallback: fallback, logger: logger}
}

// Backend reports the name of the primary backend.
func (c *Cache) Backend() string { return c.primary.Name() }

func (c *Cache) backends() []Backend {
	if c.primary == Backend(c.fallback) {
		return []Backend{c.primary}
	}
	return []Backend{c.primary, c.fallback}
}

// Save serializes data and writes it under the offer's key. The first
// backend that accepts the write wins; nothing is replicated.
func (c *Cache) Save(ctx context.Context, id string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Error("offer cache: marshal failed", slog.String("offer_id", id), slog.Any("error", err))
		return
	}
	key := Key(id)
	for _, b := range c.backends() {
		err := b.Set(ctx, key, raw)
		if err == nil {
			return
		}
		c.logger.Warn("offer cache: write failed",
			slog.String("backend", b.Name()), slog.String("offer_id", id), slog.Any("error", err))
	}
	c.logger.Error("offer cache: write dropped", slog.String("offer_id", id))
}

// Get returns the cached JSON for id, reading the primary backend first.
func (c *Cache) Get(ctx context.Context, id string) (json.RawMessage, bool) {
	key := Key(id)
	for _, b := range c.backends() {
		raw, err := b.Get(ctx, key)
		if err == nil {
			return json.RawMessage(raw), true
		}
		if !errors.Is(err, ErrMiss) {
			c.logger.Warn("offer cache: read failed",
				slog.String("backend", b.Name()), slog.String("offer_id", id), slog.Any("error", err))
		}
	}
	return nil, false
}

// Remove deletes id from every backend.
func (c *Cache) Remove(ctx context.Context, id string) {
	key := Key(id)
	for _, b := range c.backends() {
		if err := b.Delete(ctx, key); err != nil {
			c.logger.Warn("offer cache: delete failed",
				slog.String("backend", b.Name()), slog.String("offer_id", id), slog.Any("error", err))
		}
	}
}

// List returns the sorted, de-duplicated ids cached in any backend.
func (c *Cache) List(ctx context.Context) []string {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, b := range c.backends() {
		keys, err := b.Keys(ctx, KeyPrefix)
		if err != nil {
			c.logger.Warn("offer cache: list failed", slog.String("backend", b.Name()), slog.Any("error", err))
			continue
		}
		for _, k := range keys {
			id, ok := strings.CutPrefix(k, KeyPrefix)
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Clear removes every offer entry from every backend and reports how many
// distinct ids were cleared.
func (c *Cache) Clear(ctx context.Context) int {
	ids := c.List(ctx)
	for _, id := range ids {
		c.Remove(ctx, id)
	}
	return len(ids)
}
