package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backoffice_backend/internal/cart/domain"
	"backoffice_backend/platform/apperr"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleCart() *domain.Cart {
	c := domain.New()
	c.Add(domain.Source{Kind: domain.KindOffering, SourceID: uuid.New(), Name: "Drain Cleaning", UnitPriceCents: 17500, UnitLabel: "ea"})
	c.Add(domain.Source{
		Kind:           domain.KindPackage,
		SourceID:       uuid.New(),
		Name:           "Drain Care",
		UnitPriceCents: 40000,
		Components: []domain.Component{
			{OfferingID: uuid.New(), Name: "Inspection", UnitPriceCents: 10000, Quantity: 1},
			{OfferingID: uuid.New(), Name: "Snaking", UnitPriceCents: 15000, Quantity: 2},
		},
	})
	c.SetDiscountPercent(decimal.NewFromInt(10))
	c.SetTaxRate(decimal.RequireFromString("8.25"))
	c.SetIncludeTax(true)
	return c
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	key := SessionKey{OrganizationID: uuid.New(), UserID: uuid.New()}

	_, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	cart := sampleCart()
	require.NoError(t, store.Save(ctx, key, cart))

	loaded, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cart.Items(), loaded.Items())
	require.Equal(t, cart.Totals(), loaded.Totals())
	require.Equal(t, cart.Materialize(), loaded.Materialize())

	require.NoError(t, store.Delete(ctx, key))
	_, ok, err = store.Load(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreSlidingExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	key := SessionKey{OrganizationID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, store.Save(ctx, key, sampleCart()))

	mr.FastForward(45 * time.Minute)
	_, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	// The read refreshed the TTL, so another 45 minutes keeps it alive.
	mr.FastForward(45 * time.Minute)
	_, ok, err = store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Hour)
	_, ok, err = store.Load(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	org := uuid.New()
	alice := SessionKey{OrganizationID: org, UserID: uuid.New()}
	bob := SessionKey{OrganizationID: org, UserID: uuid.New()}

	require.NoError(t, store.Save(ctx, alice, sampleCart()))
	_, ok, err := store.Load(ctx, bob)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreReportsStoreErrors(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	mr.Close()

	_, _, err := store.Load(context.Background(), SessionKey{OrganizationID: uuid.New(), UserID: uuid.New()})
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindStore))
}

func TestMemoryStoreReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := SessionKey{OrganizationID: uuid.New(), UserID: uuid.New()}
	cart := sampleCart()
	require.NoError(t, store.Save(ctx, key, cart))

	cart.Clear()
	loaded, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, loaded.Len())
}
