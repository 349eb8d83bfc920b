package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jurko22/xml-import/internal/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	shop *feed.Shop
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*feed.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shop, nil
}

type fakeCache struct {
	hash     string
	sets     int
	lookupEr error
}

func (f *fakeCache) GetFeedHash(ctx context.Context) (string, error) {
	return f.hash, f.lookupEr
}

func (f *fakeCache) SetFeedSnapshot(ctx context.Context, hash string, summary interface{}, ttl time.Duration) error {
	f.hash = hash
	f.sets++
	return nil
}

func TestSyncRunInsertsAndCaches(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{}
	svc := NewSyncService(
		&fakeFetcher{shop: testShop()},
		NewReconciler(store, Config{}),
		nil, cache, nil, "https://example.com/feed.xml")

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, cache.sets)
	assert.NotEmpty(t, cache.hash)
}

func TestSyncRunSkipsUnchangedFeed(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{}
	svc := NewSyncService(
		&fakeFetcher{shop: testShop()},
		NewReconciler(store, Config{}),
		nil, cache, nil, "https://example.com/feed.xml")

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	insertsAfterFirst := store.sizeInserts

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, insertsAfterFirst, store.sizeInserts, "unchanged feed must not touch the store")
	assert.Equal(t, 2, summary.Unchanged)
}

func TestSyncRunFetchFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	svc := NewSyncService(
		&fakeFetcher{err: errors.New("connection refused")},
		NewReconciler(store, Config{}),
		nil, nil, nil, "https://example.com/feed.xml")

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, store.sizeInserts, "fetch failure must abort before any writes")
}

func TestSyncRunCacheLookupFailureFallsThrough(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{lookupEr: errors.New("redis down")}
	svc := NewSyncService(
		&fakeFetcher{shop: testShop()},
		NewReconciler(store, Config{}),
		nil, cache, nil, "https://example.com/feed.xml")

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted, "cache trouble must not block reconciliation")
}
