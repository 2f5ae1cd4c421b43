package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moby/locker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
)

// SessionLocker serializes mutations of one session; distinct sessions proceed in parallel.
type SessionLocker interface {
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

type memorySessionLocker struct {
	locks *locker.Locker
}

// NewMemorySessionLocker locks within a single process.
func NewMemorySessionLocker() SessionLocker {
	return &memorySessionLocker{locks: locker.New()}
}

func (m *memorySessionLocker) Lock(_ context.Context, id string) (func(), error) {
	m.locks.Lock(id)
	return func() { m.locks.Unlock(id) }, nil
}

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// redisLockClient is the subset of redis.Cmdable used by the locker.
type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type RedisLockOptions struct {
	KeyPrefix string
	// TTL bounds how long a crashed holder can block the session.
	TTL          time.Duration
	Wait         time.Duration
	PollInterval time.Duration
}

type redisSessionLocker struct {
	client redisLockClient
	opts   RedisLockOptions
	log    *zap.Logger
}

// NewRedisSessionLocker locks across every replica sharing the redis instance.
func NewRedisSessionLocker(client redisLockClient, opts RedisLockOptions, log *zap.Logger) SessionLocker {
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Minute
	}
	if opts.Wait <= 0 {
		opts.Wait = opts.TTL
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 50 * time.Millisecond
	}
	return &redisSessionLocker{
		client: client,
		opts:   opts,
		log:    logger.Named(log, "session_lock"),
	}
}

func (r *redisSessionLocker) Lock(ctx context.Context, id string) (func(), error) {
	key := r.opts.KeyPrefix + id
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, r.opts.Wait)
	defer cancel()

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(waitCtx, key, token, r.opts.TTL).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			return func() { r.release(key, token) }, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrSessionBusy
		case <-ticker.C:
		}
	}
}

func (r *redisSessionLocker) release(key, token string) {
	// the request context may already be gone
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		r.log.Warn("failed to release session lock", zap.String("key", key), zap.Error(err))
	}
}
