package scheduler

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"dcaexecutor/src/model"
)

// Receipt is the outcome of one settled execution.
type Receipt struct {
	TxHash  string
	GasUsed int64
}

// Settlement executes one conversion. A production implementation would call
// the settlement backend here; this service ships only the simulation.
type Settlement interface {
	Execute(ctx context.Context, order *model.DCAOrder) (*Receipt, error)
}

// SimulatedSettlement produces a synthetic transaction id and gas estimate
// without touching any chain.
type SimulatedSettlement struct{}

func NewSimulatedSettlement() *SimulatedSettlement {
	return &SimulatedSettlement{}
}

func (s *SimulatedSettlement) Execute(ctx context.Context, order *model.DCAOrder) (*Receipt, error) {
	receipt := &Receipt{
		TxHash:  "0x" + uuid.NewString(),
		GasUsed: 21000 + rand.Int63n(130000),
	}

	logger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"tx_hash":  receipt.TxHash,
		"gas_used": receipt.GasUsed,
	}).Debug("Simulated settlement executed")

	return receipt, nil
}
