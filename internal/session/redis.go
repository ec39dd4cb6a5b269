package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/molisezx/luct-reporting/internal/models"
)

const redisKeyPrefix = "session:"

// RedisRegistry stores sessions in Redis so multiple API instances can
// share them and tokens survive a process restart.
type RedisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry wraps the provided client. A zero ttl stores tokens
// without expiry, matching the in-memory behaviour.
func NewRedisRegistry(client *redis.Client, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, ttl: ttl}
}

// Create stores the snapshot and returns the fresh token.
func (r *RedisRegistry) Create(ctx context.Context, snapshot models.UserInfo) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal session snapshot: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+token, payload, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Lookup returns the snapshot for a live token, nil otherwise.
func (r *RedisRegistry) Lookup(ctx context.Context, token string) (*models.UserInfo, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var snapshot models.UserInfo
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	return &snapshot, nil
}

// Invalidate removes the token; absent tokens are ignored.
func (r *RedisRegistry) Invalidate(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}
