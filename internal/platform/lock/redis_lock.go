// Package lock provides the lease that keeps accrual sweeps from overlapping.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SweepLockKey is the Redis key every replica contends for before sweeping.
const SweepLockKey = "accrual:sweep:lock"

// ErrNotHeld is returned by Unlock when this holder has no lease.
var ErrNotHeld = errors.New("lease not held")

// unlockScript deletes the key only if it still carries our token, so a lease that
// expired and was taken by another replica is left alone.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RedisLease is a SET NX EX lease shared by all replicas.
type RedisLease struct {
	client     *redis.Client
	key        string
	expiration time.Duration

	mu    sync.Mutex
	token string
}

// NewRedisLease creates a lease on key that expires after expiration unless released.
func NewRedisLease(client *redis.Client, key string, expiration time.Duration) *RedisLease {
	return &RedisLease{client: client, key: key, expiration: expiration}
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// TryLock attempts to take the lease without waiting.
func (l *RedisLease) TryLock(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.expiration).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX %s: %w", l.key, err)
	}
	if !ok {
		return false, nil
	}
	l.mu.Lock()
	l.token = token
	l.mu.Unlock()
	return true, nil
}

// Unlock releases the lease if this holder still owns it.
func (l *RedisLease) Unlock(ctx context.Context) error {
	l.mu.Lock()
	token := l.token
	l.token = ""
	l.mu.Unlock()
	if token == "" {
		return ErrNotHeld
	}
	if err := unlockScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
		return fmt.Errorf("redis release %s: %w", l.key, err)
	}
	return nil
}
