package offer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads an offer's JSON from the upstream API.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// Service layers read-through and local mutation on top of a Cache.
type Service struct {
	cache *Cache
	sfg   singleflight.Group // collapses concurrent misses for one id
	now   func() time.Time
}

func NewService(cache *Cache) *Service {
	return &Service{cache: cache, now: time.Now}
}

func (s *Service) Cache() *Cache { return s.cache }

// Get returns the cached offer JSON, or calls fetch on a miss and caches its
// result. cached reports whether the value came from the cache. fetch is
// shared by concurrent callers for the same id, so it runs detached from the
// caller's cancellation and must bound itself.
func (s *Service) Get(ctx context.Context, id string, fetch FetchFunc) (body json.RawMessage, cached bool, err error) {
	if raw, ok := s.cache.Get(ctx, id); ok {
		return raw, true, nil
	}

	v, err, _ := s.sfg.Do(id, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		raw, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Save(ctx, id, raw)
		return raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(json.RawMessage), false, nil
}

// Load decodes the cached offer for id.
func (s *Service) Load(ctx context.Context, id string) (Offer, bool) {
	raw, ok := s.cache.Get(ctx, id)
	if !ok {
		return Offer{}, false
	}
	var o Offer
	if err := json.Unmarshal(raw, &o); err != nil {
		s.cache.logger.Warn("offer cache: undecodable entry", "offer_id", id, "error", err)
		return Offer{}, false
	}
	return o, true
}

// Store recalculates o and caches it under its id.
func (s *Service) Store(ctx context.Context, o Offer) Offer {
	if o.Items == nil {
		o.Items = []LineItem{}
	}
	Recalculate(&o)
	s.cache.Save(ctx, o.ID, o)
	return o
}

// Mutate applies fn to the cached offer, or to seed() when nothing is cached,
// and caches the result. Used when the upstream cannot apply the change so the
// change stays visible on later reads.
func (s *Service) Mutate(ctx context.Context, id string, seed func() Offer, fn func(Offer) (Offer, error)) (Offer, error) {
	base, ok := s.Load(ctx, id)
	if !ok {
		base = seed()
	}
	base.ID = id

	out, err := fn(base)
	if err != nil {
		return Offer{}, fmt.Errorf("mutate offer %s: %w", id, err)
	}
	out.UpdatedAt = s.now().UTC()
	return s.Store(ctx, out), nil
}
