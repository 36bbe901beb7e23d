package usecase

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"context-gateway/internal/model"
)

const defaultMaxActiveOwners = 10000

type ownerActivity struct {
	mu     sync.Mutex
	scope  model.Scope
	writes int
}

// activityTracker remembers owners seen recently, for narrative refresh and
// write counting. Entries expire ttl after the owner's last turn.
type activityTracker struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *ownerActivity]
}

func newActivityTracker(size int, ttl time.Duration) *activityTracker {
	if size <= 0 {
		size = defaultMaxActiveOwners
	}
	return &activityTracker{lru: expirable.NewLRU[string, *ownerActivity](size, nil, ttl)}
}

// touch refreshes the owner's expiry. t.mu is only taken to create a new
// entry, so turns of known owners never serialize on it.
func (t *activityTracker) touch(sc model.Scope) *ownerActivity {
	if sc.IsZero() {
		return nil
	}

	a, ok := t.lru.Get(sc.UserID)
	if !ok {
		t.mu.Lock()
		a, ok = t.lru.Get(sc.UserID)
		if !ok {
			a = &ownerActivity{scope: sc}
			t.lru.Add(sc.UserID, a)
		}
		t.mu.Unlock()
		if !ok {
			return a
		}
	}

	a.mu.Lock()
	a.scope = sc
	a.mu.Unlock()
	// Add refreshes the expiry of an existing key.
	t.lru.Add(sc.UserID, a)
	return a
}

// recordWrite counts a stored memory and reports whether the owner crossed
// another multiple of every.
func (t *activityTracker) recordWrite(sc model.Scope, every int) bool {
	a := t.touch(sc)
	if a == nil || every <= 0 {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.writes++
	return a.writes%every == 0
}

func (t *activityTracker) owners() []model.Scope {
	values := t.lru.Values()
	out := make([]model.Scope, 0, len(values))
	for _, a := range values {
		a.mu.Lock()
		out = append(out, a.scope)
		a.mu.Unlock()
	}
	return out
}
