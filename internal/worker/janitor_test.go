package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
)

func TestJanitorPrunesExpiredEntries(t *testing.T) {
	store := auth.NewMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Blacklist(ctx, "stale", time.Now().Add(-time.Minute)))
	require.NoError(t, store.Blacklist(ctx, "live", time.Now().Add(time.Hour)))

	janitor := NewRevocationJanitor(store, 10*time.Millisecond, zap.NewNop())

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		janitor.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Size() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancellation")
	}

	revoked, err := store.IsBlacklisted(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestJanitorDefaultsInterval(t *testing.T) {
	janitor := NewRevocationJanitor(auth.NewMemoryRevocationStore(), 0, zap.NewNop())
	assert.Equal(t, 5*time.Minute, janitor.interval)
}
