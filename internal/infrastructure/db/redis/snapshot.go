package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SnapshotStore persists whole entity collections as single JSON blobs.
// It is the local best-effort tier: save failures are logged and swallowed so
// the caller's in-memory state stays authoritative, and a failed load simply
// reports a miss.
type SnapshotStore struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewSnapshotStore creates a SnapshotStore wrapping the given Redis client.
func NewSnapshotStore(client *redis.Client, log zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{client: client, log: log}
}

// Load reads the blob at key into v. Returns false on a miss or any failure.
func (s *SnapshotStore) Load(ctx context.Context, key string, v any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("snapshot load failed")
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("snapshot decode failed")
		return false
	}
	return true
}

// Save serializes v and stores it under key. Failures are logged, never
// returned: persistence of the snapshot is best effort.
func (s *SnapshotStore) Save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("snapshot marshal failed")
		return
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("snapshot save failed")
	}
}
