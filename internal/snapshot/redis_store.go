package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// KeyPrefix namespaces snapshot keys in Redis.
const KeyPrefix = "crm-metrics:snapshot:"

// redisCmdable is the subset of the go-redis client the store uses.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps snapshots as JSON strings under KeyPrefix+id with a TTL,
// so several processes can share one fetched snapshot.
type RedisStore struct {
	client redisCmdable
	ttl    time.Duration
}

// NewRedisStore wraps a connected client. A ttl of 0 keeps keys forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Connect dials Redis and verifies the connection with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

func redisKey(id string) string {
	return KeyPrefix + id
}

// Load fetches a snapshot. A missing key is not an error.
func (s *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot from Redis: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}

	log.Info().Str("snapshot", id).Int("activities", len(snap.Activities)).Msg("Loaded snapshot from Redis")
	return &snap, nil
}

// Save stores the snapshot, replacing any previous value.
func (s *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := validateID(snap.ID); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(snap.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot to Redis: %w", err)
	}

	log.Info().Str("snapshot", snap.ID).Dur("ttl", s.ttl).Msg("Snapshot saved to Redis")
	return nil
}

// Delete removes a snapshot key.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.client.Del(ctx, redisKey(id)).Err()
}
