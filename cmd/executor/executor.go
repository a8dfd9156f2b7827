package executor

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dcaexecutor/src/database"
	"dcaexecutor/src/executors"
	"dcaexecutor/src/scheduler"

	"github.com/sirupsen/logrus"
)

// Executor runs the recurring purchase loop as a standalone worker.
type Executor struct{}

func (t *Executor) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to main database")
		return err
	}

	sched := scheduler.NewFromConfig()

	if err := executors.StartSchedulerLoop(ctx, sched); err != nil {
		logrus.WithError(err).Error("Failed to start scheduler loop")
		return err
	}

	return nil
}
