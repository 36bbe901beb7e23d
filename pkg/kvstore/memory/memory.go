package memory

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"context-gateway/pkg/kvstore"
)

const (
	defaultShards       = 16
	defaultSizePerShard = 4096
)

// Config configures the sharded in-memory store.
type Config struct {
	Shards       int
	SizePerShard int
	// MaxEntries, when set and SizePerShard is not, is split across shards.
	MaxEntries int
	TTL        time.Duration
}

type shard struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, []byte]
}

// Store is an in-process kvstore.Store split into independently locked shards.
type Store struct {
	shards []*shard
}

// New creates a sharded store. Each shard evicts least-recently-used entries
// beyond SizePerShard and expires entries TTL after their last write.
func New(cfg Config) *Store {
	if cfg.Shards <= 0 {
		cfg.Shards = defaultShards
	}
	if cfg.SizePerShard <= 0 && cfg.MaxEntries > 0 {
		cfg.SizePerShard = (cfg.MaxEntries + cfg.Shards - 1) / cfg.Shards
	}
	if cfg.SizePerShard <= 0 {
		cfg.SizePerShard = defaultSizePerShard
	}

	s := &Store{shards: make([]*shard, cfg.Shards)}
	for i := range s.shards {
		s.shards[i] = &shard{lru: expirable.NewLRU[string, []byte](cfg.SizePerShard, nil, cfg.TTL)}
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	v, ok := sh.lru.Get(key)
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return clone(v), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.lru.Add(key, clone(value))
	return nil
}

func (s *Store) Replace(_ context.Context, key string, value []byte) (bool, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Get (not Contains) so an expired-but-unswept entry counts as absent.
	if _, ok := sh.lru.Get(key); !ok {
		return false, nil
	}
	sh.lru.Add(key, clone(value))
	return true, nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.lru.Get(key); !ok {
		sh.lru.Remove(key)
		return false, nil
	}
	return sh.lru.Remove(key), nil
}

// Len returns the number of live entries across shards.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += sh.lru.Len()
		sh.mu.Unlock()
	}
	return n
}

func (s *Store) Close() error {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.lru.Purge()
		sh.mu.Unlock()
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
