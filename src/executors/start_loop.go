package executors

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"

	"dcaexecutor/src/scheduler"
	"dcaexecutor/src/sync"
)

// StartSyncLoop runs the reconciliation engine once after the settle delay
// and then on every interval tick until the context is cancelled. A tick
// landing while a pass is still in flight is coalesced by the engine itself.
func StartSyncLoop(ctx context.Context, engine *sync.Engine) error {
	config := GetConfig()

	logger.WithFields(map[string]interface{}{
		"settle_delay": config.SyncSettleDelay.String(),
		"interval":     config.SyncInterval.String(),
	}).Info("Starting sync loop")

	// initial settle delay so the process is fully up before the first pass
	settle := time.NewTimer(config.SyncSettleDelay)
	defer settle.Stop()

	select {
	case <-ctx.Done():
		logger.Info("sync loop stopped before first pass")
		return nil
	case <-settle.C:
		runSyncOnce(ctx, engine)
	}

	ticker := time.NewTicker(config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("sync loop stopped")
			return nil

		case <-ticker.C:
			runSyncOnce(ctx, engine)
		}
	}
}

func runSyncOnce(ctx context.Context, engine *sync.Engine) {
	result, err := engine.RunSync(ctx)
	if err != nil {
		logger.WithError(err).Error("Sync pass failed")
		return
	}
	if result.Skipped {
		logger.WithField("reason", result.Reason).Info("Sync pass skipped")
	}
}

// StartSchedulerLoop fires the DCA scheduler on a fixed interval until the
// context is cancelled. Tick errors are logged and the loop keeps going; a
// broken tick must not kill the worker.
func StartSchedulerLoop(ctx context.Context, sched *scheduler.Scheduler) error {
	config := GetConfig()

	logger.WithField("interval", config.SchedulerInterval.String()).Info("Starting scheduler loop")

	ticker := time.NewTicker(config.SchedulerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler loop stopped")
			return nil

		case <-ticker.C:
			logger.Info("scheduler loop tick")
			if err := sched.RunTick(ctx); err != nil {
				logger.WithError(err).Error("Scheduler tick failed")
			}
		}
	}
}
