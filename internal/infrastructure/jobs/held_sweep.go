package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"fundguard.backend/internal/domain/entities"
	"fundguard.backend/internal/domain/repositories"
	"fundguard.backend/pkg/logger"
)

// HeldSweepJob picks up GENERATED entries whose inline advance never landed
// and moves them to HELD. The advance is idempotent, so racing the inline
// path is harmless.
type HeldSweepJob struct {
	repo     repositories.LedgerRepository
	advance  func(ctx context.Context, entry *entities.FundLedgerEntry) error
	interval time.Duration
	stop     chan struct{}
}

func NewHeldSweepJob(repo repositories.LedgerRepository, advance func(ctx context.Context, entry *entities.FundLedgerEntry) error) *HeldSweepJob {
	return &HeldSweepJob{
		repo:     repo,
		advance:  advance,
		interval: 30 * time.Second,
		stop:     make(chan struct{}),
	}
}

func (j *HeldSweepJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting held sweep job")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "held sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "held sweep job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *HeldSweepJob) Stop() {
	close(j.stop)
}

func (j *HeldSweepJob) sweep(ctx context.Context) {
	stuck, err := j.repo.ListByStatus(ctx, entities.LedgerStatusGenerated, 100)
	if err != nil {
		logger.Error(ctx, "held sweep fetch failed", zap.Error(err))
		return
	}

	if len(stuck) == 0 {
		return
	}

	advanced := 0
	for _, entry := range stuck {
		if err := j.advance(ctx, entry); err != nil {
			logger.Error(ctx, "held sweep advance failed",
				zap.String("entry_id", entry.ID.String()), zap.Error(err))
			continue
		}
		advanced++
	}

	logger.Info(ctx, "held sweep advanced entries", zap.Int("count", advanced))
}
