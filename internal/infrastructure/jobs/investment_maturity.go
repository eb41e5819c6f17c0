package jobs

import (
	"context"
	"sync"
	"time"

	"fxvault.backend/pkg/logger"
	"go.uber.org/zap"
)

// MaturitySettler completes matured investments.
type MaturitySettler interface {
	SettleMatured(ctx context.Context, at time.Time, limit int) (int, error)
}

// InvestmentMaturityJob pays out investments whose term has ended
type InvestmentMaturityJob struct {
	settler  MaturitySettler
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewInvestmentMaturityJob(settler MaturitySettler, interval time.Duration) *InvestmentMaturityJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &InvestmentMaturityJob{
		settler:  settler,
		interval: interval,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

func (j *InvestmentMaturityJob) Start(ctx context.Context) {
	runTicker(ctx, "investment_maturity", j.interval, j.stop, j.settleMatured)
}

func (j *InvestmentMaturityJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// settleMatured drains full batches so a backlog clears in one tick.
func (j *InvestmentMaturityJob) settleMatured(ctx context.Context) {
	at := j.now().UTC()
	total := 0
	for {
		n, err := j.settler.SettleMatured(ctx, at, sweepBatchSize)
		if err != nil {
			logger.Error(ctx, "Error settling matured investments", zap.Error(err))
			break
		}
		total += n
		if n < sweepBatchSize {
			break
		}
	}
	if total > 0 {
		logger.Info(ctx, "Settled matured investments", zap.Int("count", total))
	}
}
