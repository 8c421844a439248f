package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"backoffice_backend/platform/apperr"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour)

	p := Progress{
		JobID:          uuid.New(),
		OrganizationID: uuid.New(),
		ServiceIDs:     []uuid.UUID{uuid.New()},
		Status:         StatusRunning,
		Total:          3,
		Completed:      1,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		UpdatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(ctx, p))

	got, err := store.Get(ctx, p.JobID)
	require.NoError(t, err)
	require.Equal(t, p.Status, got.Status)
	require.Equal(t, 1, got.Completed)
	require.Equal(t, p.ServiceIDs, got.ServiceIDs)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, p.JobID)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRedisStoreReportsStoreErrors(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	mr.Close()

	_, err := store.Get(context.Background(), uuid.New())
	require.True(t, apperr.Is(err, apperr.KindStore), "expected store error, got %v", err)
}
