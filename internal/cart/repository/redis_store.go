package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"backoffice_backend/internal/cart/domain"
	"backoffice_backend/platform/apperr"
)

const (
	cartKeyPrefix  = "cart:"
	defaultCartTTL = 72 * time.Hour
)

// RedisStore keeps each cart as a JSON document with a sliding TTL that is
// refreshed on every read and write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func redisKey(key SessionKey) string {
	return cartKeyPrefix + key.OrganizationID.String() + ":" + key.UserID.String()
}

func (s *RedisStore) Load(ctx context.Context, key SessionKey) (*domain.Cart, bool, error) {
	data, err := s.client.GetEx(ctx, redisKey(key), s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, apperr.Store("cart session unavailable", err).WithOp("load cart")
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false, fmt.Errorf("unmarshal cart: %w", err)
	}
	return domain.FromState(state), true, nil
}

func (s *RedisStore) Save(ctx context.Context, key SessionKey, cart *domain.Cart) error {
	data, err := json.Marshal(cart.State())
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(key), data, s.ttl).Err(); err != nil {
		return apperr.Store("cart session unavailable", err).WithOp("save cart")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key SessionKey) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return apperr.Store("cart session unavailable", err).WithOp("delete cart")
	}
	return nil
}
