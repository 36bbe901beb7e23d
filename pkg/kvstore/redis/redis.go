package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"context-gateway/pkg/kvstore"
)

// ConnConfig holds redis connection settings.
type ConnConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// Config scopes a Store to a key prefix and TTL.
type Config struct {
	Prefix string
	TTL    time.Duration
}

// Store is a kvstore.Store shared across instances through redis.
type Store struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	owned  bool
}

// Connect dials redis and verifies the connection.
func Connect(ctx context.Context, cfg ConnConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// New wraps an existing client. Close does not close a shared client.
func New(client *goredis.Client, cfg Config) *Store {
	return &Store{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

// NewOwned wraps a client whose lifetime belongs to the store.
func NewOwned(client *goredis.Client, cfg Config) *Store {
	s := New(client, cfg)
	s.owned = true
	return s
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get: %w", err)
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

func (s *Store) Replace(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := s.client.SetXX(ctx, s.key(key), value, s.ttl).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: replace: %w", err)
	}
	return ok, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: delete: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
