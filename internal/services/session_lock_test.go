package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestMemorySessionLocker(t *testing.T) {
	locks := NewMemorySessionLocker()
	ctx := context.Background()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locks.Lock(ctx, "s1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50, got %d", counter)
	}

	unlockA, _ := locks.Lock(ctx, "a")
	unlockB, _ := locks.Lock(ctx, "b")
	unlockB()
	unlockA()
}

// fakeLockRedis emulates SET NX PX and the compare-and-delete release script.
type fakeLockRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	evals  int
	err    error
}

func newFakeLockRedis() *fakeLockRedis {
	return &fakeLockRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeLockRedis) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, held := f.values[key]; held {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeLockRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals++
	if f.values[keys[0]] == args[0].(string) {
		delete(f.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (f *fakeLockRedis) held(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.values[key]
	return ok
}

func TestRedisSessionLocker(t *testing.T) {
	client := newFakeLockRedis()
	locks := NewRedisSessionLocker(client, RedisLockOptions{
		KeyPrefix:    "interview:lock:",
		TTL:          time.Minute,
		Wait:         200 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}, zap.NewNop())
	ctx := context.Background()

	unlock, err := locks.Lock(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !client.held("interview:lock:s1") || client.ttls["interview:lock:s1"] != time.Minute {
		t.Fatalf("expected lock key with ttl, got %v", client.ttls)
	}

	// another replica sees the same key
	acquired := make(chan struct{})
	go func() {
		unlock2, err := locks.Lock(ctx, "s1")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
			close(acquired)
			return
		}
		close(acquired)
		unlock2()
	}()

	select {
	case <-acquired:
		t.Fatalf("second lock acquired while the first is held")
	case <-time.After(30 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("second lock not acquired after release")
	}

	unlockOther, err := locks.Lock(ctx, "s2")
	if err != nil {
		t.Fatalf("expected independent key to lock, got %v", err)
	}
	unlockOther()
}

func TestRedisSessionLockerBusy(t *testing.T) {
	client := newFakeLockRedis()
	client.values["interview:lock:s1"] = "someone-else"
	locks := NewRedisSessionLocker(client, RedisLockOptions{
		KeyPrefix:    "interview:lock:",
		Wait:         20 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}, zap.NewNop())

	if _, err := locks.Lock(context.Background(), "s1"); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locks.Lock(ctx, "s1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRedisSessionLockerKeepsForeignLock(t *testing.T) {
	client := newFakeLockRedis()
	locks := NewRedisSessionLocker(client, RedisLockOptions{KeyPrefix: "lock:"}, zap.NewNop())

	unlock, err := locks.Lock(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// our ttl lapsed and another holder took over
	client.mu.Lock()
	client.values["lock:s1"] = "new-holder"
	client.mu.Unlock()

	unlock()
	if !client.held("lock:s1") || client.evals != 1 {
		t.Fatalf("expected foreign lock to survive release")
	}
}

func TestRedisSessionLockerBackendError(t *testing.T) {
	client := newFakeLockRedis()
	client.err = errBackendDown
	locks := NewRedisSessionLocker(client, RedisLockOptions{}, zap.NewNop())

	if _, err := locks.Lock(context.Background(), "s1"); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}
