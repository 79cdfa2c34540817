package authsessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "kairo:authsessions:"

// RedisRepository keeps the ledger in Redis. Each entry is a hash keyed by
// token, written with a TTL matching the recorded expiry so stale entries
// disappear on their own; IsActive still compares the stored expiry against
// the clock and never trusts the TTL sweep alone.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(addr string) (*RedisRepository, error) {
	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisRepository{client: cl}, nil
}

func (r *RedisRepository) Close() error { return r.client.Close() }

func key(token string) string { return keyPrefix + token }

func (r *RedisRepository) Create(ctx context.Context, token string, userID string, expiresAt time.Time, clientInfo string) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return errors.New("expiry is in the past")
	}

	k := key(token)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, k, map[string]interface{}{
		"user_id":     userID,
		"expires_at":  expiresAt.UTC().Format(time.RFC3339Nano),
		"client_info": clientInfo,
	})
	pipe.Expire(ctx, k, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) IsActive(ctx context.Context, token string) (bool, error) {
	v, err := r.client.HGet(ctx, key(token), "expires_at").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis error: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return false, fmt.Errorf("corrupt ledger entry: %w", err)
	}

	return time.Now().Before(expiresAt), nil
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op for Redis: entries carry a TTL equal to their
// expiry, so the store reclaims them itself.
func (r *RedisRepository) PurgeExpired(ctx context.Context) error {
	return nil
}
