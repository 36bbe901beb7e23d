package usecase

import (
	"sync"
	"sync/atomic"
	"time"

	"context-gateway/internal/session"
	"context-gateway/pkg/kvstore"
	pkgLog "context-gateway/pkg/log"
)

type implUseCase struct {
	l       pkgLog.Logger
	store   kvstore.Store
	idleTTL time.Duration
	now     func() time.Time

	origins atomic.Pointer[originPolicy]

	watchMu  sync.Mutex
	watchers map[string]map[uint64]chan struct{}
	watchSeq uint64
}

// New creates a session UseCase over store. The store TTL should equal cfg.IdleTTL.
func New(l pkgLog.Logger, store kvstore.Store, cfg session.Config) session.UseCase {
	uc := &implUseCase{
		l:        l,
		store:    store,
		idleTTL:  cfg.IdleTTL,
		now:      time.Now,
		watchers: make(map[string]map[uint64]chan struct{}),
	}
	uc.origins.Store(newOriginPolicy(cfg.AllowedOrigins, cfg.AllowLocalhost))
	return uc
}
