package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces flash keys.
const keyPrefix = "flash:"

// RedisStore keeps payloads as JSON strings with a TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a store on client. ttl <= 0 means DefaultTTL.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, p Payload) error {
	if err := CheckSessionID(sessionID); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("flash marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("flash put: %w", err)
	}
	return nil
}

// Take reads and deletes the key atomically with GETDEL.
func (s *RedisStore) Take(ctx context.Context, sessionID string) (*Payload, bool, error) {
	if err := CheckSessionID(sessionID); err != nil {
		return nil, false, err
	}
	data, err := s.client.GetDel(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("flash take: %w", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("flash unmarshal: %w", err)
	}
	return &p, true, nil
}

// Ping reports whether Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
