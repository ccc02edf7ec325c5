package payments

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Gateway is the external value-transfer collaborator. The ledger credits a
// deposit only after ConfirmDeposit returns, and commits a withdrawal debit
// only after Transfer returns; a Transfer error rolls the debit back.
type Gateway interface {
	// ConfirmDeposit blocks until the inbound transfer of amount from the
	// given identity is confirmed.
	ConfirmDeposit(ctx context.Context, identity string, amount int64) error
	// Transfer sends amount out of the ledger to the given identity.
	Transfer(ctx context.Context, identity string, amount int64) error
}

// LoggingGateway accepts every transfer and records it. It stands in for the
// real value mover, which lives outside the ledger.
type LoggingGateway struct {
	logger *logrus.Logger
}

func NewLoggingGateway(logger *logrus.Logger) *LoggingGateway {
	return &LoggingGateway{logger: logger}
}

func (g *LoggingGateway) ConfirmDeposit(ctx context.Context, identity string, amount int64) error {
	g.logger.WithFields(logrus.Fields{
		"identity": identity,
		"amount":   amount,
	}).Info("deposit confirmed")
	return nil
}

func (g *LoggingGateway) Transfer(ctx context.Context, identity string, amount int64) error {
	g.logger.WithFields(logrus.Fields{
		"identity": identity,
		"amount":   amount,
	}).Info("outbound transfer issued")
	return nil
}

var _ Gateway = (*LoggingGateway)(nil)
