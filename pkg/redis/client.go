package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the idempotency replay cache and the per-entity release locks.
// The package keeps a single shared client; Init must run before any of the
// helpers below.

var client *redis.Client

const pingTimeout = 5 * time.Second

// Init connects the shared client from a redis:// URL and verifies the
// connection with a ping.
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}

	if password != "" {
		opts.Password = password
	}

	client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	return nil
}

// SetClient swaps the shared client. Tests use it to point the package at a
// miniredis instance.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the shared client.
func GetClient() *redis.Client {
	return client
}

// Set stores a key with an expiration.
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key.
func Get(ctx context.Context, key string) (string, error) {
	return client.Get(ctx, key).Result()
}

// Del removes a key.
func Del(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// SetNX sets a key only if it does not already exist. Lock acquisition
// depends on this being a single atomic step.
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return client.SetNX(ctx, key, value, expiration).Result()
}
