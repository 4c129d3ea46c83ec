package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/repository"
)

// RunAwaitSweeper periodically removes expired awaits from stores that keep
// them without native expiry. It returns when ctx is done.
func (h *Handler) RunAwaitSweeper(ctx context.Context, interval time.Duration) {
	sweeper, ok := h.awaits.(repository.Sweeper)
	if !ok {
		h.logger.Info("Await store expires entries itself, sweeper not started")
		return
	}

	h.logger.Info("Started await sweeper", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Await sweeper stopped")
			return
		case <-ticker.C:
			removed, err := sweeper.Sweep(ctx)
			if err != nil {
				h.logger.Error("Await sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				h.logger.Debug("Expired awaits removed", zap.Int("count", removed))
			}
		}
	}
}
