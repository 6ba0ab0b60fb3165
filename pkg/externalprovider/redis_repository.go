package externalprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "library:oauth2:state:"

// RedisStateRepository keeps pending states in Redis so any replica can
// finish a login another replica started. Expiry is delegated to Redis.
type RedisStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateRepository creates a Redis backed state repository
func NewRedisStateRepository(client *redis.Client, ttl time.Duration) *RedisStateRepository {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &RedisStateRepository{client: client, ttl: ttl}
}

// ConnectRedis builds a client from a redis:// URL or a host:port address.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

func (r *RedisStateRepository) StoreState(ctx context.Context, state *OAuth2State) error {
	if state == nil || state.State == "" {
		return errors.New("state value is required")
	}

	ttl := r.ttl
	if !state.ExpiresAt.IsZero() {
		if remaining := time.Until(state.ExpiresAt); remaining > 0 {
			ttl = remaining
		}
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := r.client.Set(ctx, stateKeyPrefix+state.State, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) ConsumeState(ctx context.Context, stateValue string) (*OAuth2State, error) {
	raw, err := r.client.GetDel(ctx, stateKeyPrefix+stateValue).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	var state OAuth2State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	if state.IsExpired(time.Now()) {
		return nil, ErrStateExpired
	}
	return &state, nil
}

// CleanupExpiredStates is a no-op; keys carry their own TTL.
func (r *RedisStateRepository) CleanupExpiredStates(_ context.Context) error {
	return nil
}
