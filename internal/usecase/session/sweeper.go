package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically removes expired sessions. It is started once from
// the composition root and stopped through its context on shutdown.
type Sweeper struct {
	store    *Store
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates a Sweeper for the given store.
func NewSweeper(store *Store, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{store: store, interval: interval, logger: logger}
}

// Run blocks, sweeping on every tick until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.store.Sweep(s.store.now()); removed > 0 {
				s.logger.Debug("swept expired sessions", zap.Int("removed", removed))
			}
		}
	}
}
