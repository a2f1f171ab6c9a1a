package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tenco/blog/models"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the authenticated caller server side, keyed by the cookie value.
type SessionStore interface {
	Create(ctx context.Context, user *models.SessionUser) (string, error)
	Get(ctx context.Context, id string) (*models.SessionUser, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// NewSessionStore prefers Redis and falls back to process memory (single instance only) when
// Redis does not answer.
func NewSessionStore(ctx context.Context, ttl time.Duration) SessionStore {
	if err := PingRedis(ctx); err != nil {
		L().Warn("redis unavailable, sessions kept in memory", zap.Error(err))
		return NewMemorySessionStore(ttl)
	}
	return NewRedisSessionStore(GetRedis(), ttl)
}

// RedisSessionStore keeps sessions in Redis with a sliding TTL.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore wraps an existing client.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Create(ctx context.Context, user *models.SessionUser) (string, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Get also slides the expiry forward.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.SessionUser, error) {
	raw, err := s.rdb.GetEx(ctx, sessionKeyPrefix+id, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var user models.SessionUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

type memorySession struct {
	user      models.SessionUser
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory. Used in tests and when Redis is down.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

// NewMemorySessionStore returns an empty store whose sessions expire after ttl.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, now: time.Now, sessions: map[string]memorySession{}}
}

func (s *MemorySessionStore) Create(_ context.Context, user *models.SessionUser) (string, error) {
	if user == nil {
		return "", errors.New("nil session user")
	}
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.sessions[id] = memorySession{user: *user, expiresAt: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if !now.Before(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	entry.expiresAt = now.Add(s.ttl)
	s.sessions[id] = entry
	user := entry.user
	return &user, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Ping(context.Context) error { return nil }

func (s *MemorySessionStore) purgeLocked() {
	now := s.now()
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
