package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/nikolayk812/cart-service/internal/port"
	"github.com/redis/go-redis/v9"
	"time"
)

const (
	defaultKeyPrefix = "cart:idempotency:"
	pendingMarker    = "pending"
)

// RedisIdempotencyStore shares idempotency keys between service instances.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings, so misconfiguration fails at startup.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	return client, nil
}

func NewRedisIdempotencyStore(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, pendingMarker, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("client.SetNX: %w", err)
	}

	return ok, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, resp port.StoredResponse, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (*port.StoredResponse, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	if raw == pendingMarker {
		return nil, nil
	}

	var resp port.StoredResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return &resp, nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

var _ port.IdempotencyStore = (*RedisIdempotencyStore)(nil)
