package scheduler

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"

	"dcaexecutor/src/model"
	"dcaexecutor/src/repository"
)

// Scheduler advances due DCA orders. Orders are processed sequentially to
// bound load on the settlement backend and keep per-order logging
// deterministic; each order's outcome is isolated, so one failing order
// never stops the rest of the batch.
//
// Note: unlike the sync engine there is deliberately no single-flight guard
// here. Overlapping ticks can only occur when the interval is shorter than a
// batch takes to settle.
type Scheduler struct {
	orders    *repository.DCAOrderRepository
	txs       *repository.TransactionRepository
	settle    Settlement
	batchSize int
	now       func() time.Time
}

// New wires a scheduler from explicit collaborators.
func New(
	orders *repository.DCAOrderRepository,
	txs *repository.TransactionRepository,
	settle Settlement,
	batchSize int,
) *Scheduler {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Scheduler{
		orders:    orders,
		txs:       txs,
		settle:    settle,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// NewFromConfig wires a scheduler from environment configuration and the
// main database, the way the worker entrypoints use it.
func NewFromConfig() *Scheduler {
	config := GetConfig()
	return New(
		repository.NewDCAOrderRepository(),
		repository.NewTransactionRepository(),
		NewSimulatedSettlement(),
		config.BatchSize,
	)
}

// RunTick selects one batch of due orders (oldest-due first) and attempts
// each of them once. Every attempt, success or failure, appends exactly one
// transaction record and pushes next_execution one frequency unit past the
// current wall-clock time, so a failed order retries a full period later
// instead of spinning.
func (s *Scheduler) RunTick(ctx context.Context) error {
	now := s.now()

	due, err := s.orders.FindDue(ctx, now, s.batchSize)
	if err != nil {
		logger.WithError(err).Error("Scheduler tick failed to select due orders")
		return err
	}

	if len(due) == 0 {
		logger.Debug("Scheduler tick: no due orders")
		return nil
	}

	logger.WithField("due", len(due)).Info("Scheduler tick started")

	for i := range due {
		s.processOrder(ctx, &due[i])
	}

	logger.WithField("processed", len(due)).Info("Scheduler tick finished")

	return nil
}

// processOrder attempts one execution and records the outcome. Errors are
// absorbed here: they end up in the failed transaction record and the log,
// never in the caller.
func (s *Scheduler) processOrder(ctx context.Context, order *model.DCAOrder) {
	receipt, execErr := s.settle.Execute(ctx, order)
	executedAt := s.now()

	record := &model.Transaction{
		OrderID:    &order.ID,
		UserID:     order.UserID,
		Amount:     order.Amount,
		TokenFrom:  order.TokenFrom,
		TokenTo:    order.TokenTo,
		ExecutedAt: executedAt,
	}

	if execErr != nil {
		message := execErr.Error()
		record.Status = model.TxStatusFailed
		record.ErrorMessage = &message

		logger.WithFields(map[string]interface{}{
			"order_id": order.ID,
			"user_id":  order.UserID,
		}).WithError(execErr).Error("Order execution failed")
	} else {
		record.Status = model.TxStatusCompleted
		record.TxHash = &receipt.TxHash
		record.GasUsed = &receipt.GasUsed

		logger.WithFields(map[string]interface{}{
			"order_id": order.ID,
			"tx_hash":  receipt.TxHash,
		}).Info("Order executed")
	}

	if err := s.txs.Create(ctx, record); err != nil {
		logger.WithFields(map[string]interface{}{
			"order_id": order.ID,
		}).WithError(err).Error("Failed to append execution record")
	}

	// advance from actual run time in both outcomes, never from the prior
	// schedule, so a backlog drains without an execution storm
	next := model.NextExecutionFrom(executedAt, order.Frequency)
	if err := s.orders.UpdateNextExecution(ctx, order.ID, next); err != nil {
		logger.WithFields(map[string]interface{}{
			"order_id": order.ID,
		}).WithError(err).Error("Failed to advance next execution")
	}
}
