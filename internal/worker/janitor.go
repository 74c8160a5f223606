package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
)

// RevocationJanitor sweeps the in-memory revocation store, dropping entries
// whose token has passed its natural expiry. Without the sweep the blacklist
// grows without bound.
type RevocationJanitor struct {
	store    *auth.MemoryRevocationStore
	interval time.Duration
	logger   *zap.Logger
}

// NewRevocationJanitor builds the janitor.
func NewRevocationJanitor(store *auth.MemoryRevocationStore, interval time.Duration, logger *zap.Logger) *RevocationJanitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RevocationJanitor{store: store, interval: interval, logger: logger}
}

// Run sweeps on a ticker until the context is cancelled.
func (j *RevocationJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := j.store.PruneExpired(time.Now()); removed > 0 {
				j.logger.Info("pruned expired revocations",
					zap.Int("removed", removed),
					zap.Int("remaining", j.store.Size()))
			}
		}
	}
}
