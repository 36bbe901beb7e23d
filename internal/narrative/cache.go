// Package narrative caches the per-owner summary served on new conversations.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"context-gateway/pkg/kvstore"
	pkgLog "context-gateway/pkg/log"
)

const keyPrefix = "narrative:"

// Entry is one cached narrative.
type Entry struct {
	OwnerID     string    `json:"owner_id"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Cache reads and writes narratives. Safe for concurrent use.
type Cache struct {
	l     pkgLog.Logger
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a Cache. Entries older than ttl are reported as a miss.
func New(l pkgLog.Logger, store kvstore.Store, ttl time.Duration) *Cache {
	return &Cache{l: l, store: store, ttl: ttl, now: time.Now}
}

// Get returns the cached narrative for owner. Backend failures are a miss.
func (c *Cache) Get(ctx context.Context, owner string) (Entry, bool) {
	if owner == "" {
		return Entry{}, false
	}

	raw, err := c.store.Get(ctx, keyPrefix+owner)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			c.l.Warnf(ctx, "internal.narrative.Get: owner=%s: %v", owner, err)
		}
		return Entry{}, false
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.l.Warnf(ctx, "internal.narrative.Get: corrupt entry owner=%s: %v", owner, err)
		return Entry{}, false
	}
	if c.ttl > 0 && c.now().Sub(e.GeneratedAt) > c.ttl {
		return Entry{}, false
	}
	if strings.TrimSpace(e.Text) == "" {
		return Entry{}, false
	}
	return e, true
}

// Put stores text as the narrative for owner.
func (c *Cache) Put(ctx context.Context, owner, text string) error {
	if owner == "" {
		return errors.New("narrative: owner is required")
	}
	raw, err := json.Marshal(Entry{OwnerID: owner, Text: text, GeneratedAt: c.now().UTC()})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, keyPrefix+owner, raw)
}
