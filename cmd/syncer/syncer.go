package syncer

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dcaexecutor/src/database"
	"dcaexecutor/src/executors"
	"dcaexecutor/src/sync"

	"github.com/sirupsen/logrus"
)

// Syncer runs the catalog reconciliation loop as a standalone worker.
type Syncer struct{}

func (t *Syncer) Start() error {
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

	engine := sync.NewFromConfig()
	logrus.WithField("gateway", sync.GetConfig().GatewaySlug).Info("Starting catalog syncer for gateway")

	if err := executors.StartSyncLoop(ctx, engine); err != nil {
		logrus.WithError(err).Error("Failed to start sync loop")
		return err
	}

	return nil
}
