package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const settleCheckInterval = 10 * time.Second

// StartBackgroundJobs runs the loops that live for the lifetime of ctx.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.StartSchedulerService(ctx)
}

// StartSchedulerService settles exchange orders periodically until ctx ends.
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(settleCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSettlement(ctx)
			}
		}
	}()
}

// runSettlement completes orders that have been processing long enough.
func (a *Application) runSettlement(ctx context.Context) {
	age := time.Duration(a.appConfig.Exchange.SettleAfter) * time.Second
	if age <= 0 {
		return
	}
	n, err := a.exchange.Settle(ctx, age)
	if err != nil {
		zap.L().Error("exchange settlement failed", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("exchange orders settled", zap.Int64("count", n))
	}
}
