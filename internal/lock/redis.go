package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shopseed/shopseed/pkg/logger"
)

var (
	// ErrHeld is returned when another holder owns the lock.
	ErrHeld = errors.New("lock is held by another run")
	// ErrLost is returned by Release when the key expired or changed hands
	// before the holder released it.
	ErrLost = errors.New("lock was lost before release")
)

// Locker hands out named, expiring locks.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (Release, error)
}

// Release frees a lock obtained from Acquire.
type Release func(ctx context.Context) error

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL lapsed never frees a lock someone else took since.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the TTL only while the key still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX under key "<prefix><name>".
// While held, the TTL is renewed every third of its length until Release.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a Redis-based locker. Prefix may be empty.
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = "lock:"
	}
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) key(name string) string {
	return l.prefix + name
}

func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (Release, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(name), token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", name, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(context.WithoutCancel(ctx), name, token, ttl, stop, done)

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stop) })
		<-done
		n, err := releaseScript.Run(ctx, l.client, []string{l.key(name)}, token).Int64()
		if err != nil {
			return fmt.Errorf("release %s: %w", name, err)
		}
		if n == 0 {
			return fmt.Errorf("release %s: %w", name, ErrLost)
		}
		return nil
	}, nil
}

func (l *RedisLocker) keepAlive(ctx context.Context, name, token string, ttl time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	every := ttl / 3
	if every <= 0 {
		every = ttl
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ok, err := l.extend(ctx, name, token, ttl)
			if err != nil {
				logger.Warnf("lock %s: renew: %v", name, err)
				continue
			}
			if !ok {
				logger.Warnf("lock %s: %v", name, ErrLost)
				return
			}
		}
	}
}

// extend pushes the expiry of a lock we still own ttl into the future.
func (l *RedisLocker) extend(ctx context.Context, name, token string, ttl time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()
	n, err := extendScript.Run(ctx, l.client, []string{l.key(name)}, token, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
