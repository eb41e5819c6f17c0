package jobs

import (
	"context"
	"sync"
	"time"

	"fxvault.backend/pkg/logger"
	"go.uber.org/zap"
)

// RoundSettler completes rounds that ended with a preset result.
type RoundSettler interface {
	SettleDueRounds(ctx context.Context, at time.Time, limit int) (int, error)
}

// RoundSettlementJob closes trade rounds once their end time passes
type RoundSettlementJob struct {
	settler  RoundSettler
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewRoundSettlementJob(settler RoundSettler, interval time.Duration) *RoundSettlementJob {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &RoundSettlementJob{
		settler:  settler,
		interval: interval,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

func (j *RoundSettlementJob) Start(ctx context.Context) {
	runTicker(ctx, "round_settlement", j.interval, j.stop, j.settleDue)
}

func (j *RoundSettlementJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *RoundSettlementJob) settleDue(ctx context.Context) {
	n, err := j.settler.SettleDueRounds(ctx, j.now().UTC(), sweepBatchSize)
	if err != nil {
		logger.Error(ctx, "Error settling due rounds", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Settled due rounds", zap.Int("count", n))
	}
}
