package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/internal/model"
)

func TestActivityTrackerConcurrentTouch(t *testing.T) {
	tr := newActivityTracker(16, time.Hour)
	alice := model.Scope{UserID: "alice", ClientName: "desk"}

	const n = 50
	got := make([]*ownerActivity, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = tr.touch(alice)
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}
	require.Len(t, tr.owners(), 1)
	assert.Equal(t, "alice", tr.owners()[0].UserID)
}

func TestActivityTrackerRecordWrite(t *testing.T) {
	tr := newActivityTracker(16, time.Hour)
	bob := model.Scope{UserID: "bob"}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fires int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.recordWrite(bob, 10) {
				mu.Lock()
				fires++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, fires)
	assert.Nil(t, tr.touch(model.Scope{}))
	assert.False(t, tr.recordWrite(bob, 0))
}

func TestActivityTrackerUpdatesScope(t *testing.T) {
	tr := newActivityTracker(16, time.Hour)
	tr.touch(model.Scope{UserID: "carol", ClientName: "old"})
	tr.touch(model.Scope{UserID: "carol", ClientName: "new"})

	owners := tr.owners()
	require.Len(t, owners, 1)
	assert.Equal(t, "new", owners[0].ClientName)
}
