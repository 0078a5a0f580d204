package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/go-redis/redis/v8"
)

const DefaultRedisKey = "trustcloak:botcache:snapshot"

// RedisStore keeps the snapshot under a single key so several redirect
// instances can share one bot list.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

var _ classification.SnapshotStore = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, classification.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot from redis: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}
	return nil
}
