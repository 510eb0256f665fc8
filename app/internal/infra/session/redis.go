package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domsession "example.com/localspark/app/internal/domain/session"
)

const keyPrefix = "session:"

// RedisOptions locates the server. Addr is either host:port or a
// redis:// (rediss://) URL; a non-empty Password or non-zero DB overrides
// what the URL carries.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(opts RedisOptions) (*redis.Client, error) {
	o, err := redisOptions(opts)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(o), nil
}

func redisOptions(opts RedisOptions) (*redis.Options, error) {
	o := &redis.Options{Addr: opts.Addr}
	if strings.Contains(opts.Addr, "://") {
		parsed, err := redis.ParseURL(opts.Addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		o = parsed
	}
	if opts.Password != "" {
		o.Password = opts.Password
	}
	if opts.DB != 0 {
		o.DB = opts.DB
	}
	return o, nil
}

// RedisStore keeps one key per session; Redis expires it with the session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

type redisSession struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context) (*domsession.Session, error) {
	now := s.now().UTC()
	sess := &domsession.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(redisSession{CreatedAt: sess.CreatedAt, ExpiresAt: sess.ExpiresAt})
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, key(sess.ID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domsession.Session, error) {
	payload, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domsession.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(payload, &rs); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess := &domsession.Session{ID: id, CreatedAt: rs.CreatedAt, ExpiresAt: rs.ExpiresAt}
	if sess.Expired(s.now()) {
		return nil, domsession.ErrSessionNotFound
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
