package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"backoffice_backend/platform/apperr"
)

const (
	keyPrefix         = "catalog:bulk_job:"
	defaultJobTTL     = 24 * time.Hour
	jobNotFoundMsg    = "bulk customization job not found"
	opSaveJobProgress = "save bulk job progress"
	opGetJobProgress  = "get bulk job progress"
)

// RedisStore keeps job snapshots in Redis with a retention TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed progress store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultJobTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Save(ctx context.Context, p Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal job progress: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+p.JobID.String(), data, s.ttl).Err(); err != nil {
		return apperr.Store("job progress unavailable", err).WithOp(opSaveJobProgress)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, jobID uuid.UUID) (Progress, error) {
	data, err := s.client.Get(ctx, keyPrefix+jobID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Progress{}, apperr.NotFound(jobNotFoundMsg)
		}
		return Progress{}, apperr.Store("job progress unavailable", err).WithOp(opGetJobProgress)
	}

	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return Progress{}, fmt.Errorf("unmarshal job progress: %w", err)
	}
	return p, nil
}
