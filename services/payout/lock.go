package payout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"metro/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker serializes payout reconciliation per partner.
type Locker interface {
	Lock(ctx context.Context, partnerID string) (unlock func(), err error)
}

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisLocker holds a token-guarded key per partner so payouts serialize across instances.
type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Poll   time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{Client: client, TTL: ttl, Poll: 50 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, partnerID string) (func(), error) {
	key := utils.PayoutLockPrefix + partnerID
	token := uuid.New().String()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire payout lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Poll):
		}
	}

	return func() {
		// The caller's context may already be done; release on a short one of our own.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.Client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			utils.GetLogger().Sugar().Warnf("failed to release payout lock %s: %v", key, err)
		}
	}, nil
}

// LocalLocker serializes payouts within one process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) Lock(ctx context.Context, partnerID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[partnerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[partnerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	if err := ctx.Err(); err != nil {
		m.Unlock()
		return nil, err
	}
	return m.Unlock, nil
}
