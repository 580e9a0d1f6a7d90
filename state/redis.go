package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	// Namespace prefixes every key written by this store.
	Namespace string

	// Addr is the host:port of the Redis server.
	// Default: "localhost:6379"
	Addr string

	// Password authenticates against the server. Optional.
	Password string

	// DB selects the logical database.
	// Default: 0
	DB int

	// Client overrides Addr/Password/DB with a caller-supplied client,
	// for cluster or sentinel deployments. The store takes ownership;
	// Close closes it.
	Client redis.UniversalClient
}

// Redis is a Redis-backed store implementation. Keys are written as
// "<namespace>:<key>", so stores with different namespaces can share
// one server without seeing each other's keys. The connection is
// established lazily by the client on first use.
type Redis struct {
	namespace string
	client    redis.UniversalClient
}

// NewRedis creates a Redis store from the given config.
func NewRedis(config RedisConfig) (*Redis, error) {
	if err := ValidateNamespace(config.Namespace); err != nil {
		return nil, err
	}

	client := config.Client
	if client == nil {
		if config.Addr == "" {
			config.Addr = "localhost:6379"
		}
		client = redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		})
	}

	return &Redis{
		namespace: config.Namespace,
		client:    client,
	}, nil
}

// Client returns the underlying go-redis client, for operations outside
// the Store surface.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}

// Get retrieves the value stored under key. Returns ErrNotFound on miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	value, err := r.client.Get(ctx, fullKey(r.namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("state: redis get: %w", err)
	}
	return value, nil
}

// Set stores value under key with no expiry, replacing any previous
// value.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, fullKey(r.namespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("state: redis set: %w", err)
	}
	return nil
}

// Delete removes the value stored under key. Idempotent - no error on miss.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if err := r.client.Del(ctx, fullKey(r.namespace, key)).Err(); err != nil {
		return fmt.Errorf("state: redis del: %w", err)
	}
	return nil
}

// Keys lists the keys present in the store's namespace, sorted. It
// walks the keyspace with SCAN rather than KEYS so a large server is
// never blocked.
func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	prefix := fullKey(r.namespace, "")

	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("state: redis scan: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Close closes the underlying client, including a caller-supplied one.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ensure Redis implements Store
var _ Store = (*Redis)(nil)
