// Package redislock provides a best-effort mutual exclusion lease keyed by
// name. A holder that already owns a key may re-acquire it to extend the TTL.
package redislock

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// releaseScript deletes the key only while it still names this holder.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the TTL only while it still names this holder.
var extendScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type redisLocker struct {
	rdb    *goredis.Client
	holder string
	prefix string
	log    *logger.Logger
}

func New(rdb *goredis.Client, baseLog *logger.Logger) Locker {
	return &redisLocker{
		rdb:    rdb,
		holder: holderID(),
		prefix: "cf:lock:",
		log:    baseLog.With("component", "RedisLocker"),
	}
}

func holderID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%s", host, uuid.NewString())
}

func (l *redisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	k := l.prefix + key
	ok, err := l.rdb.SetNX(ctx, k, l.holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if ok {
		return true, nil
	}
	n, err := extendScript.Run(ctx, l.rdb, []string{k}, l.holder, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("redis extend %s: %w", key, err)
	}
	return n == 1, nil
}

func (l *redisLocker) Release(ctx context.Context, key string) error {
	n, err := releaseScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.holder).Int64()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	if n == 0 {
		l.log.Debug("lock already gone on release", "key", key)
	}
	return nil
}

// Local is the in-process fallback used when redis is not configured. It
// only excludes callers inside one process.
type Local struct {
	mu    sync.Mutex
	held  map[string]time.Time
	nowFn func() time.Time
}

func NewLocal() *Local {
	return &Local{held: map[string]time.Time{}, nowFn: time.Now}
}

func (l *Local) TryAcquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.nowFn()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *Local) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
	return nil
}
