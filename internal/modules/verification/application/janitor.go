package application

import (
	"context"
	"time"

	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/domain"
	"go.uber.org/zap"
)

// Janitor periodically deletes expired grants. Expired rows are already
// inert, so a failed sweep only delays cleanup.
type Janitor struct {
	grants   domain.GrantRepository
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewJanitor(grants domain.GrantRepository, interval time.Duration, now func() time.Time, logger *zap.Logger) *Janitor {
	if now == nil {
		now = time.Now
	}
	return &Janitor{grants: grants, interval: interval, now: now, logger: logger}
}

// Sweep runs one cleanup pass
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	return j.grants.DeleteExpired(ctx, j.now())
}

// Run sweeps every interval until ctx is cancelled. A non-positive interval disables it.
func (j *Janitor) Run(ctx context.Context) error {
	if j.interval <= 0 {
		j.logger.Info("grant janitor disabled")
		return nil
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := j.Sweep(ctx)
			if err != nil {
				j.logger.Warn("grant sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				j.logger.Info("expired grants removed", zap.Int64("count", removed))
			}
		}
	}
}
