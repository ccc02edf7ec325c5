package repository

import "context"

// LedgerRepository manages the single collected-payments scalar: the pool of
// settled user debts awaiting owner withdrawal.
type LedgerRepository interface {
	Init(ctx context.Context) error
	CollectedPayments(ctx context.Context) (int64, error)
	AddCollectedPayments(ctx context.Context, delta int64) error
}
