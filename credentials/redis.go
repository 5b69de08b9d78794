package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrClosed is returned by a RedisStore after Close.
var ErrClosed = errors.New("credentials: store closed")

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // loaded from env
	DB       int
	// Key is the Redis key holding the session document.
	Key string
	// TTL expires the session server-side. Zero keeps it until cleared.
	TTL         time.Duration
	DialTimeout time.Duration
}

// Validate checks the configuration before dialing.
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis credentials: addr is required")
	}
	if c.DB < 0 || c.DB > 15 {
		return fmt.Errorf("redis credentials: invalid database number %d (must be 0-15)", c.DB)
	}
	if c.Key == "" {
		return fmt.Errorf("redis credentials: key is required")
	}
	if c.TTL < 0 {
		return fmt.Errorf("redis credentials: ttl cannot be negative")
	}
	return nil
}

// RedisStore keeps the session in a single Redis key so that several client
// processes can share one login.
type RedisStore struct {
	client *redis.Client
	cfg    RedisConfig
	closed atomic.Bool
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore validates cfg, connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis credentials: ping %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client, cfg: cfg}, nil
}

func (r *RedisStore) Token(ctx context.Context) (string, error) {
	s, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	if s.Token == "" {
		return "", ErrNoCredentials
	}
	return s.Token, nil
}

func (r *RedisStore) User(ctx context.Context) (*User, error) {
	s, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if s.User == nil {
		return nil, ErrNoCredentials
	}
	return s.User, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	if r.closed.Load() {
		return ErrClosed
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.cfg.Key, data, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis credentials: set %s: %w", r.cfg.Key, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.client.Del(ctx, r.cfg.Key).Err(); err != nil {
		return fmt.Errorf("redis credentials: del %s: %w", r.cfg.Key, err)
	}
	return nil
}

// Close releases the connection pool. Closing twice returns ErrClosed.
func (r *RedisStore) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return r.client.Close()
}

func (r *RedisStore) load(ctx context.Context) (Session, error) {
	if r.closed.Load() {
		return Session{}, ErrClosed
	}
	data, err := r.client.Get(ctx, r.cfg.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNoCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis credentials: get %s: %w", r.cfg.Key, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", r.cfg.Key, err)
	}
	return s, nil
}
