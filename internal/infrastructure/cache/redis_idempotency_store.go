package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appprocurement "github.com/praxis/backend/internal/application/procurement"
	"github.com/praxis/backend/internal/infrastructure/config"
)

// RedisIdempotencyStore deduplicates receipt confirmations using Redis.
// Suitable for distributed deployments where multiple instances need to
// share idempotency state.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisIdempotencyStore creates a new Redis-based idempotency store
func NewRedisIdempotencyStore(cfg config.RedisConfig, ttl time.Duration) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: "receipt:confirm:",
		ttl:       ttl,
	}, nil
}

// NewRedisIdempotencyStoreWithClient creates a store with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisIdempotencyStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = "receipt:confirm:"
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Reserve records the key for the receipt using SET NX GET, which stores the
// new value and returns the previous one in a single atomic operation.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, practiceID uuid.UUID, key string, receiptID uuid.UUID) (bool, uuid.UUID, error) {
	redisKey := s.keyPrefix + scopedKey(practiceID, key)

	previous, err := s.client.SetArgs(ctx, redisKey, receiptID.String(), redis.SetArgs{
		Mode: "NX",
		Get:  true,
		TTL:  s.ttl,
	}).Result()
	if err == redis.Nil {
		// No previous value, the key is newly reserved
		return true, uuid.Nil, nil
	}
	if err != nil {
		return false, uuid.Nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}

	previousID, parseErr := uuid.Parse(previous)
	if parseErr != nil {
		return false, uuid.Nil, fmt.Errorf("corrupt idempotency entry %q: %w", previous, parseErr)
	}
	return false, previousID, nil
}

// Release frees a reservation so the key can be retried
func (s *RedisIdempotencyStore) Release(ctx context.Context, practiceID uuid.UUID, key string) error {
	redisKey := s.keyPrefix + scopedKey(practiceID, key)
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ appprocurement.IdempotencyStore = (*RedisIdempotencyStore)(nil)
