package jobs

import (
	"context"
	"time"

	"fxvault.backend/pkg/logger"
	"go.uber.org/zap"
)

const sweepBatchSize = 100

// runTicker calls tick every interval until ctx is done or stop is closed.
func runTicker(ctx context.Context, name string, interval time.Duration, stop <-chan struct{}, tick func(context.Context)) {
	logger.Info(ctx, "Starting background job", zap.String("job", name), zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Background job stopped (context cancelled)", zap.String("job", name))
			return
		case <-stop:
			logger.Info(ctx, "Background job stopped", zap.String("job", name))
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}
