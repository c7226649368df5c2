package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/RestaurantGo/pkg/database"
)

const system = "redis"

// Store implements storage.Store on Redis. Keys are namespaced per device so
// several companions can share one Redis instance.
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a Redis-backed store for the given device namespace.
func New(client *redis.Client, namespace string) *Store {
	return &Store{
		client: client,
		prefix: "restaurant:" + namespace + ":",
	}
}

func (s *Store) key(k string) string { return s.prefix + k }

// Get retrieves a value. A missing key is reported as ok=false, not an error.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	ctx, end := database.TraceOperation(ctx, system, "GET", key)
	defer func() { end(err) }()

	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key, value string) (err error) {
	ctx, end := database.TraceOperation(ctx, system, "SET", key)
	defer func() { end(err) }()

	if err = s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// SetMany writes all values in one MULTI/EXEC transaction.
func (s *Store) SetMany(ctx context.Context, values map[string]string) (err error) {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	ctx, end := database.TraceOperation(ctx, system, "MULTI_SET", strings.Join(keys, ","))
	defer func() { end(err) }()

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set many: %w", err)
	}
	return nil
}

// Remove deletes a key. Deleting a missing key succeeds.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.RemoveMany(ctx, key)
}

// RemoveMany deletes keys with a single DEL.
func (s *Store) RemoveMany(ctx context.Context, keys ...string) (err error) {
	if len(keys) == 0 {
		return nil
	}
	ctx, end := database.TraceOperation(ctx, system, "DEL", strings.Join(keys, ","))
	defer func() { end(err) }()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err = s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", strings.Join(keys, ","), err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
