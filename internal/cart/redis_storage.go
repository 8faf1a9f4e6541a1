package cart

import (
	"context"
	"time"

	"github.com/vintagegrove/backend/pkg/redis"
)

// RedisStorage persists cart snapshots in Redis with a rolling TTL.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage wraps the shared Redis client for cart snapshots.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

// Load fetches and decodes the snapshot. A missing key or undecodable value
// yields an empty cart; only transport failures surface as errors.
func (s *RedisStorage) Load(ctx context.Context, cartID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(cartID))
	if err != nil {
		if redis.IsNil(err) {
			return New(), nil
		}
		return New(), err
	}
	return FromSnapshot([]byte(raw)), nil
}

// Save writes the full snapshot under the cart key.
func (s *RedisStorage) Save(ctx context.Context, cartID string, c *Cart) error {
	data, err := c.MarshalSnapshot()
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.client.CartKey(cartID), string(data), s.ttl)
}

// Delete drops the snapshot.
func (s *RedisStorage) Delete(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, s.client.CartKey(cartID))
}
