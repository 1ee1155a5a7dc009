package kvstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	redisPingAttempts = 30
	redisMaxBackoff   = 30 * time.Second
)

// RedisStore persists values as plain Redis strings.
type RedisStore struct {
	client *redis.Client
	// backoff is the first retry delay of Initialize; it doubles per attempt.
	backoff time.Duration
}

// NewRedisStore accepts either a redis:// URL or a bare host[:port] address.
func NewRedisStore(redisAddr string) (*RedisStore, error) {
	if strings.TrimSpace(redisAddr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opts, err := redis.ParseURL(redisAddr)
	if err != nil {
		// Not a redis:// URL, use it as a plain address
		if !strings.Contains(redisAddr, ":") {
			redisAddr = redisAddr + ":6379"
		}
		opts = &redis.Options{
			Addr:         redisAddr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	return NewRedisStoreFromClient(redis.NewClient(opts)), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, backoff: time.Second}
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// Initialize waits until Redis answers a PING, backing off exponentially between attempts.
func (r *RedisStore) Initialize(ctx context.Context) error {
	logrus.Info("🔌 RedisStore: initializing connection...")

	for i := 0; i < redisPingAttempts; i++ {
		if err := r.Ping(ctx); err == nil {
			logrus.WithField("attempt", i+1).Info("✅ RedisStore: ping successful")
			return nil
		}

		backoff := r.backoff * time.Duration(1<<uint(i))
		if backoff > redisMaxBackoff || backoff <= 0 {
			backoff = redisMaxBackoff
		}
		logrus.WithFields(logrus.Fields{
			"attempt": i + 1,
			"wait":    backoff,
		}).Warn("⚠️  RedisStore: ping failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("failed to connect to Redis after %d attempts", redisPingAttempts)
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis GET %s", key)
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis SET %s", key)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "redis DEL %s", key)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		return errors.Wrap(err, "redis PING")
	}
	return nil
}

// Close releases the client's connections.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
