package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/interview-coach/internal/models"
)

// SessionRecord is a live interview plus its ordered evaluation history.
type SessionRecord struct {
	Session     *models.InterviewSession `json:"session"`
	Evaluations []models.Evaluation      `json:"evaluations"`
}

// SessionStore keeps live sessions. Get always returns an independent copy.
type SessionStore interface {
	Get(ctx context.Context, id string) (*SessionRecord, error)
	Put(ctx context.Context, rec *SessionRecord) error
	Delete(ctx context.Context, id string) error
	// Evict removes expired records and reports how many were dropped.
	Evict(ctx context.Context) (int, error)
}

func encodeRecord(rec *SessionRecord) ([]byte, error) {
	if rec == nil || rec.Session == nil || rec.Session.ID == "" {
		return nil, fmt.Errorf("session record requires a session id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", rec.Session.ID, err)
	}
	return data, nil
}

func decodeRecord(id string, data []byte) (*SessionRecord, error) {
	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	if rec.Evaluations == nil {
		rec.Evaluations = []models.Evaluation{}
	}
	return &rec, nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memorySessionStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemorySessionStore keeps records in process. ttl <= 0 disables expiry.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *memorySessionStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (m *memorySessionStore) Get(_ context.Context, id string) (*SessionRecord, error) {
	m.mu.RLock()
	entry, ok := m.items[id]
	m.mu.RUnlock()

	if !ok || m.expired(entry, m.now()) {
		return nil, ErrSessionNotFound
	}
	return decodeRecord(id, entry.data)
}

func (m *memorySessionStore) Put(_ context.Context, rec *SessionRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.items[rec.Session.ID] = entry
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) Evict(_ context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, entry := range m.items {
		if m.expired(entry, now) {
			delete(m.items, id)
			evicted++
		}
	}
	return evicted, nil
}

// redisClient is the subset of redis.Cmdable used by the store.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisSessionStore struct {
	client    redisClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSessionStore stores records under keyPrefix+id with ttl; redis handles expiry.
func NewRedisSessionStore(client redisClient, keyPrefix string, ttl time.Duration) SessionStore {
	return &redisSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (r *redisSessionStore) key(id string) string {
	return r.keyPrefix + id
}

func (r *redisSessionStore) Get(ctx context.Context, id string) (*SessionRecord, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return decodeRecord(id, data)
}

func (r *redisSessionStore) Put(ctx context.Context, rec *SessionRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(rec.Session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", rec.Session.ID, err)
	}
	return nil
}

func (r *redisSessionStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (r *redisSessionStore) Evict(context.Context) (int, error) {
	return 0, nil
}
