package offer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GetReadsThrough(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewCache(nil, logging.Discard()))

	var calls int
	fetch := func(context.Context) (json.RawMessage, error) {
		calls++
		return json.RawMessage(`{"id":"o1","total":12}`), nil
	}

	body, cached, err := svc.Get(ctx, "o1", fetch)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.JSONEq(t, `{"id":"o1","total":12}`, string(body))

	body, cached, err = svc.Get(ctx, "o1", fetch)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.JSONEq(t, `{"id":"o1","total":12}`, string(body))
	assert.Equal(t, 1, calls)
}

func TestService_GetFetchErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewCache(nil, logging.Discard()))
	boom := errors.New("boom")

	_, _, err := svc.Get(ctx, "o1", func(context.Context) (json.RawMessage, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	assert.Empty(t, svc.Cache().List(ctx))
}

func TestService_GetCollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewCache(nil, logging.Discard()))

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (json.RawMessage, error) {
		calls.Add(1)
		<-release
		return json.RawMessage(`{"id":"o1"}`), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Get(ctx, "o1", fetch)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestService_MutateUsesSeedThenCachedState(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewCache(nil, logging.Discard()))
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	seeds := 0
	seed := func() Offer {
		seeds++
		return Offer{Currency: "USD"}
	}
	add := func(item LineItem) func(Offer) (Offer, error) {
		return func(o Offer) (Offer, error) { return AddItem(o, item) }
	}

	o, err := svc.Mutate(ctx, "o1", seed, add(LineItem{ProductID: "p1", PriceID: "pr1", Quantity: 1, UnitAmount: 40}))
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, 40.0, o.Total)
	assert.Equal(t, fixed, o.UpdatedAt)

	o, err = svc.Mutate(ctx, "o1", seed, add(LineItem{ProductID: "p2", PriceID: "pr2", Quantity: 2, UnitAmount: 30}))
	require.NoError(t, err)
	assert.Equal(t, 100.0, o.Total)
	assert.Equal(t, 1, seeds)

	cached, ok := svc.Load(ctx, "o1")
	require.True(t, ok)
	assert.Equal(t, 100.0, cached.Total)
	assert.Equal(t, "USD", cached.Currency)
}

func TestService_MutateErrorLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewCache(nil, logging.Discard()))

	_, err := svc.Mutate(ctx, "o1", func() Offer { return Offer{} }, func(o Offer) (Offer, error) {
		return ApplyModifier(o, Modifier{Kind: "nope"})
	})
	require.ErrorIs(t, err, ErrInvalidModifier)

	_, ok := svc.Load(ctx, "o1")
	assert.False(t, ok)
}

func TestService_GetFetchOutlivesCallerCancellation(t *testing.T) {
	svc := NewService(NewCache(nil, logging.Discard()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body, cached, err := svc.Get(ctx, "o1", func(ctx context.Context) (json.RawMessage, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return json.RawMessage(`{"id":"o1"}`), nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.JSONEq(t, `{"id":"o1"}`, string(body))

	_, ok := svc.Cache().Get(context.Background(), "o1")
	assert.True(t, ok)
}
